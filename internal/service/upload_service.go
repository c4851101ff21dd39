package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// maxResumeBytes caps uploaded resume size at 5 MiB.
const maxResumeBytes = 5 << 20

// resumeMIMETypes is the resume upload allowlist. The type is detected from
// the file content, never trusted from the request.
var resumeMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates and stores resume files.
type UploadService interface {
	UploadResume(ctx context.Context, fileName string, reader io.Reader, actor Actor) (string, error)
}

type uploadService struct {
	uploader FileUploader
	logger   zerolog.Logger
}

// NewUploadService constructs the upload service.
func NewUploadService(uploader FileUploader, logger zerolog.Logger) UploadService {
	return &uploadService{
		uploader: uploader,
		logger:   logger.With().Str("component", "upload_service").Logger(),
	}
}

func (s *uploadService) UploadResume(ctx context.Context, fileName string, reader io.Reader, actor Actor) (string, error) {
	if actor.UID == "" {
		return "", ErrAuthRequired
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxResumeBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%w: uploaded file is empty", ErrValidation)
	}

	if len(data) > maxResumeBytes {
		return "", fmt.Errorf("%w: resume exceeds the %d byte limit", ErrValidation, maxResumeBytes)
	}

	detected := mimetype.Detect(data)
	if !resumeMIMETypes[detected.String()] {
		return "", fmt.Errorf("%w: unsupported resume type %s", ErrValidation, detected.String())
	}

	url, err := s.uploader.Upload(ctx, fileName, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to store resume: %w", err)
	}

	s.logger.Info().
		Str("actor", actor.UID).
		Str("mime", detected.String()).
		Int("size", len(data)).
		Msg("resume uploaded")

	return url, nil
}
