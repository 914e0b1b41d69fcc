package restaurants

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugProber answers whether a slug is already taken by a record other than
// the one being excluded.
type slugProber interface {
	SlugInUse(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}

// normalizeSlugBase lowercases the name, collapses every run of characters
// outside [a-z0-9] into a single hyphen, and strips edge hyphens. Non-ASCII
// letters are treated as separators, not transliterated.
func normalizeSlugBase(name string) string {
	base := strings.ToLower(name)
	base = slugStripRe.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

// fallbackSlugBase covers names that normalize to nothing (emoji-only,
// punctuation-only). The opaque suffix keeps the public URL usable.
func fallbackSlugBase() string {
	return "restaurant-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// generateSlug derives a storage-unique slug from a display name. Collisions
// resolve deterministically: base, base-1, base-2, ... excludeID lets a record
// keep its own slug when its name has not changed.
//
// The probe is read-only; the caller's write must treat a uniqueness
// violation on the slug column as a signal to re-probe and retry.
func generateSlug(ctx context.Context, prober slugProber, name string, excludeID *uuid.UUID) (string, error) {
	base := normalizeSlugBase(name)
	if base == "" {
		base = fallbackSlugBase()
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := prober.SlugInUse(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
	}
}
