package uploads

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/tabegoro/tabegoro-backend/pkg/config"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
)

const objectPrefix = "images"

var allowedMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) error
	PublicURL(object string) string
}

// UploadInput models one incoming multipart file.
type UploadInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// UploadOutput is returned to the client after the object is stored.
type UploadOutput struct {
	URL      string `json:"url"`
	Object   string `json:"object"`
	MimeType string `json:"mimeType"`
}

// Service stores restaurant images in the object store under opaque names.
type Service interface {
	UploadImage(ctx context.Context, input UploadInput) (*UploadOutput, error)
	MaxUploadBytes() int64
}

type service struct {
	store          objectStore
	maxUploadBytes int64
}

// ServiceParams bundles the dependencies required to build an uploads service.
type ServiceParams struct {
	Store  objectStore
	Upload config.UploadConfig
}

// NewService constructs an uploads service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Upload.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		store:          params.Store,
		maxUploadBytes: int64(params.Upload.MaxUploadMB) * 1024 * 1024,
	}, nil
}

func (s *service) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *service) UploadImage(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB upload limit", s.maxUploadBytes/(1024*1024)))
	}

	mimeType, ext, err := normalizeMimeType(input.ContentType, input.FileName)
	if err != nil {
		return nil, err
	}

	object := fmt.Sprintf("%s/%s%s", objectPrefix, uuid.NewString(), ext)

	body := io.LimitReader(input.Body, s.maxUploadBytes)
	if err := s.store.Upload(ctx, object, mimeType, body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
	}

	return &UploadOutput{
		URL:      s.store.PublicURL(object),
		Object:   object,
		MimeType: mimeType,
	}, nil
}

// normalizeMimeType parses the declared content type and maps it to a known
// image extension. The original filename only contributes its extension when
// the declared type is a bare image/* we recognize by suffix.
func normalizeMimeType(contentType, fileName string) (string, string, error) {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(parsed, "image/") {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are allowed")
	}

	if ext, ok := allowedMimeTypes[parsed]; ok {
		return parsed, ext, nil
	}

	// Unlisted image subtype: keep the declared type, fall back to the
	// client's extension if it looks sane.
	ext := strings.ToLower(path.Ext(fileName))
	if len(ext) > 5 {
		ext = ""
	}
	return parsed, ext, nil
}
