package mediapipe

import "errors"

var (
	ErrMediaPipeUnavailable = errors.New("mediapipe service unavailable")
	ErrInvalidResponse      = errors.New("invalid response from mediapipe")
)
