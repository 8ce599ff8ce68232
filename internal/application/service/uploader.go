package service

import (
	"context"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
	// FaceCropURL returns a square, face-centred rendition of an uploaded image.
	FaceCropURL(publicID string) (string, error)
}
