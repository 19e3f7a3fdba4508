package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/enums"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
)

var mimeTypesByKind = map[enums.MediaKind][]string{
	enums.MediaKindReceipt: {"image/png", "image/jpeg", "image/webp", "application/pdf"},
	enums.MediaKindListing: {"image/png", "image/jpeg", "image/webp", "image/gif"},
}

type objectUploader interface {
	UploadObject(ctx context.Context, object, contentType string, data []byte) (string, error)
}

// UploadInput models one file sent to the upload endpoint.
type UploadInput struct {
	Kind     enums.MediaKind
	MimeType string
	FileName string
	Data     []byte
}

// UploadOutput is returned to the client after a successful upload.
type UploadOutput struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

// Service stores uploaded files and hands back their public URLs.
type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadOutput, error)
}

type service struct {
	uploader objectUploader
	maxBytes int64
}

// NewService constructs a media upload service.
func NewService(uploader objectUploader, cfg config.MediaConfig) (Service, error) {
	if uploader == nil {
		return nil, fmt.Errorf("object uploader required")
	}
	maxBytes := cfg.MaxUploadBytes()
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{uploader: uploader, maxBytes: maxBytes}, nil
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(input.Data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	mimeType, err := normalizeMimeType(input.MimeType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if !isAllowedMime(input.Kind, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime type not allowed for this media kind")
	}

	objectKey := buildObjectKey(input.Kind, userID, input.FileName)
	url, err := s.uploader.UploadObject(ctx, objectKey, mimeType, input.Data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	return &UploadOutput{ObjectKey: objectKey, URL: url}, nil
}

func normalizeMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}

func isAllowedMime(kind enums.MediaKind, mimeType string) bool {
	for _, candidate := range mimeTypesByKind[kind] {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

// buildObjectKey namespaces objects by kind and owner so receipts never collide
// with listing pictures.
func buildObjectKey(kind enums.MediaKind, userID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	id := uuid.New()
	if cleanName == "" {
		return fmt.Sprintf("%s/%s/%s", kind, userID, id)
	}
	return fmt.Sprintf("%s/%s/%s-%s", kind, userID, id, cleanName)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
