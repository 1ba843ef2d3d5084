package usecase

import "errors"

type ErrNotFound struct {
	ID      any
	Code    string
	Message string
}

func (e ErrNotFound) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

var (
	ErrQueueUnavailable   = errors.New("export queue is not configured")
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrUnsupportedMedia   = errors.New("only image files are allowed")
	ErrFileTooLarge       = errors.New("file exceeds the 10MB limit")
)
