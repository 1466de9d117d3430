package domain

import "errors"

var (
	// ErrTopicNotFound signals an unknown topic id.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrEmptyInput signals missing required text.
	ErrEmptyInput = errors.New("empty input")
	// ErrCompletionProvider signals a completion provider failure.
	ErrCompletionProvider = errors.New("completion provider error")
	// ErrMalformedResponse signals an unparsable completion payload.
	ErrMalformedResponse = errors.New("malformed completion response")
)
