package core

import (
	"errors"
	"fmt"
)

// ErrCodeNicknameTaken is the code of the only error surfaced to clients.
const ErrCodeNicknameTaken = "nickname_taken"

var (
	ErrNicknameTaken = errors.New("nickname taken")
	ErrNotInCircle   = errors.New("not in circle")
	ErrBadRequest    = errors.New("bad request")
	ErrHubStopped    = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.err
}

func coreError(code, msg string, err error) *CoreError {
	return &CoreError{Code: code, Message: msg, err: err}
}

func nicknameTaken(nickname string) *CoreError {
	return coreError(
		ErrCodeNicknameTaken,
		fmt.Sprintf("Nickname \"%s\" is already in use. Please choose another.", nickname),
		ErrNicknameTaken,
	)
}
