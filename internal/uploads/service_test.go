package uploads

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/tabegoro/tabegoro-backend/pkg/config"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
)

type stubStore struct {
	object      string
	contentType string
	payload     string
	err         error
}

func (s *stubStore) Upload(ctx context.Context, object, contentType string, body io.Reader) error {
	if s.err != nil {
		return s.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.object = object
	s.contentType = contentType
	s.payload = string(raw)
	return nil
}

func (s *stubStore) PublicURL(object string) string {
	return "https://cdn.tabegoro.jp/" + object
}

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:  store,
		Upload: config.UploadConfig{MaxUploadMB: 10},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectValidation(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadImage(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	out, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "storefront.png",
		ContentType: "image/png",
		SizeBytes:   7,
		Body:        strings.NewReader("payload"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if !strings.HasPrefix(store.object, "images/") || !strings.HasSuffix(store.object, ".png") {
		t.Fatalf("unexpected object name %q", store.object)
	}
	if strings.Contains(store.object, "storefront") {
		t.Fatalf("object name must be opaque, got %q", store.object)
	}
	if store.contentType != "image/png" {
		t.Fatalf("unexpected content type %q", store.contentType)
	}
	if store.payload != "payload" {
		t.Fatalf("unexpected payload %q", store.payload)
	}
	if out.URL != "https://cdn.tabegoro.jp/"+store.object {
		t.Fatalf("unexpected public url %q", out.URL)
	}
}

func TestUploadImageRejectsNonImages(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	for _, contentType := range []string{"application/pdf", "text/html", "video/mp4", "", "imagepng"} {
		_, err := svc.UploadImage(context.Background(), UploadInput{
			FileName:    "file.bin",
			ContentType: contentType,
			SizeBytes:   4,
			Body:        strings.NewReader("data"),
		})
		expectValidation(t, err)
	}
}

func TestUploadImageRejectsOversizedFiles(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "big.png",
		ContentType: "image/png",
		SizeBytes:   11 * 1024 * 1024,
		Body:        strings.NewReader("x"),
	})
	expectValidation(t, err)
}

func TestUploadImageRejectsEmptyFile(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "empty.png",
		ContentType: "image/png",
		SizeBytes:   0,
		Body:        strings.NewReader(""),
	})
	expectValidation(t, err)
}

func TestUploadImageSurfacesStoreFailure(t *testing.T) {
	store := &stubStore{err: io.ErrUnexpectedEOF}
	svc := newTestService(t, store)

	_, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "storefront.png",
		ContentType: "image/png",
		SizeBytes:   4,
		Body:        strings.NewReader("data"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
