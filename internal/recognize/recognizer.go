package recognize

import (
	"context"
	"errors"
)

// ErrNotConfigured server side recognition is disabled
var ErrNotConfigured = errors.New("text recognition service is not configured")

// Recognizer turns an image into recognized plain text. Implementations talk
// to an external service and must honor the context deadline.
type Recognizer interface {
	RecognizeImage(ctx context.Context, imageURL string) (string, error)
}

// Disabled Recognizer used when no endpoint is configured; the API then only
// accepts text recognized on the client
type Disabled struct{}

var _ Recognizer = Disabled{}

// RecognizeImage implement Recognizer
func (Disabled) RecognizeImage(ctx context.Context, imageURL string) (string, error) {
	return "", ErrNotConfigured
}
