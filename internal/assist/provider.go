package assist

import (
	"context"
	"errors"
)

// ErrExternalServiceUnavailable wraps every provider failure. The gateway
// logs and counts it but never returns it.
var ErrExternalServiceUnavailable = errors.New("external ai service unavailable")

// Image is a generated image. Empty Data means the provider answered without a payload.
type Image struct {
	Data []byte
	MIME string
}

type Provider interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (Image, error)
}

// ImageStore persists generated images and returns a URL for them.
type ImageStore interface {
	PutConcept(ctx context.Context, data []byte, ext, contentType string) (string, error)
}
