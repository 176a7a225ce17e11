package api

import (
	"context"
	"fmt"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/svg+xml"}

type storedFile struct {
	file *models.File
	url  string
}

// storeImage validates and uploads an image, then resolves its preview URL.
// If the URL cannot be built the upload is rolled back.
func (a *API) storeImage(ctx context.Context, op string, up *models.Upload) (*storedFile, error) {
	if up == nil || len(up.Data) == 0 {
		return nil, a.invalid(op, "file is required")
	}
	if int64(len(up.Data)) > a.opts.MaxUploadBytes {
		return nil, a.invalid(op, "file exceeds %d bytes", a.opts.MaxUploadBytes)
	}

	mt := mimetype.Detect(up.Data)
	allowed := false
	for _, t := range allowedImageTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, a.invalid(op, "unsupported file type %s", mt.String())
	}

	file := &models.File{
		ID:       uuid.NewString(),
		Name:     up.Name,
		MimeType: mt.String(),
		Size:     int64(len(up.Data)),
	}
	if err := a.files.Upload(ctx, file.ID, up.Data, file.MimeType); err != nil {
		return nil, a.fail(op, fmt.Errorf("upload file: %w", err))
	}

	url, err := a.files.PreviewURL(ctx, file.ID)
	if err != nil {
		a.discardFile(ctx, op, file.ID)
		return nil, a.fail(op, fmt.Errorf("preview url: %w", err))
	}
	return &storedFile{file: file, url: url}, nil
}

// discardFile deletes a stored file best-effort. Failures are only logged.
func (a *API) discardFile(ctx context.Context, op, fileID string) {
	if fileID == "" {
		return
	}
	if err := a.files.Delete(context.WithoutCancel(ctx), fileID); err != nil {
		a.logger.Warn("failed to delete file",
			zap.String("op", op),
			zap.String("file_id", fileID),
			zap.Error(err),
		)
	}
}
