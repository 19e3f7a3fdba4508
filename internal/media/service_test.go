package media

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/enums"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
)

type stubUploader struct {
	objects map[string][]byte
	types   map[string]string
}

func newStubUploader() *stubUploader {
	return &stubUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *stubUploader) UploadObject(ctx context.Context, object, contentType string, data []byte) (string, error) {
	s.objects[object] = data
	s.types[object] = contentType
	return "https://storage.googleapis.com/test-bucket/" + object, nil
}

func newTestService(t *testing.T) (Service, *stubUploader) {
	t.Helper()
	uploader := newStubUploader()
	svc, err := NewService(uploader, config.MediaConfig{MaxUploadMB: 1})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, uploader
}

func TestUploadReceiptStoresObject(t *testing.T) {
	t.Parallel()

	svc, uploader := newTestService(t)
	userID := uuid.New()

	out, err := svc.Upload(context.Background(), userID, UploadInput{
		Kind:     enums.MediaKindReceipt,
		MimeType: "image/png",
		FileName: "my receipt.png",
		Data:     []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if !strings.HasPrefix(out.ObjectKey, "receipt/"+userID.String()+"/") {
		t.Fatalf("unexpected object key %q", out.ObjectKey)
	}
	if strings.Contains(out.ObjectKey, " ") {
		t.Fatalf("expected sanitized key, got %q", out.ObjectKey)
	}
	if !strings.HasSuffix(out.ObjectKey, "-my-receipt.png") {
		t.Fatalf("expected original name preserved, got %q", out.ObjectKey)
	}
	if uploader.types[out.ObjectKey] != "image/png" {
		t.Fatalf("unexpected content type %q", uploader.types[out.ObjectKey])
	}
	if out.URL == "" {
		t.Fatal("expected public url")
	}
}

func TestUploadRejectsDisallowedMime(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		Kind:     enums.MediaKindListing,
		MimeType: "application/pdf",
		FileName: "listing.pdf",
		Data:     []byte("pdf"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		Kind:     enums.MediaKindReceipt,
		MimeType: "image/jpeg",
		FileName: "big.jpg",
		Data:     make([]byte, 2<<20),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadParsesMimeParameters(t *testing.T) {
	t.Parallel()

	svc, uploader := newTestService(t)
	out, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		Kind:     enums.MediaKindReceipt,
		MimeType: "IMAGE/PNG; charset=binary",
		FileName: "r.png",
		Data:     []byte("png"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uploader.types[out.ObjectKey] != "image/png" {
		t.Fatalf("expected normalized mime, got %q", uploader.types[out.ObjectKey])
	}
}

func TestUploadRequiresIdentityAndData(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, uuid.Nil, UploadInput{Kind: enums.MediaKindReceipt, MimeType: "image/png", Data: []byte("x")}); err == nil {
		t.Fatal("expected error for missing identity")
	}
	if _, err := svc.Upload(ctx, uuid.New(), UploadInput{Kind: enums.MediaKindReceipt, MimeType: "image/png"}); err == nil {
		t.Fatal("expected error for empty file")
	}
	if _, err := svc.Upload(ctx, uuid.New(), UploadInput{Kind: "banner", MimeType: "image/png", Data: []byte("x")}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
