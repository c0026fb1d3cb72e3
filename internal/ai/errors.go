package ai

import "errors"

// AI errors.
var (
	ErrStoryNotFound   = errors.New("story not found")
	ErrInvalidType     = errors.New("invalid type")
	ErrDisabled        = errors.New("ai features are not configured")
	ErrGeneration      = errors.New("text generation failed")
	ErrEmptyCompletion = errors.New("empty completion")
)
