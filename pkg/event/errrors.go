package event

import "errors"

var (
	// ErrConnection means the broker could not be reached or the session was lost.
	ErrConnection = errors.New("connection error")
	// ErrSend means a publish was attempted on a live session and failed.
	ErrSend = errors.New("send error")
	// ErrDecode means a consumed payload did not parse as a grid update batch.
	ErrDecode = errors.New("decode error")
)
