// Package provider holds the external model boundaries used by the
// enhancement and image pipelines. Credentials are passed to constructors.
package provider

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse  = errors.New("provider returned an empty response")
	ErrContentBlocked = errors.New("provider blocked the content")
	ErrInvalidConfig  = errors.New("invalid provider configuration")
)

// Completer sends a prompt to a language model and returns its raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator returns a URL for an image illustrating the prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, taskID int64, prompt string) (string, error)
}
