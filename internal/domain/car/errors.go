package car

import "errors"

var (
	ErrCarNotFound      = errors.New("car not found")
	ErrCarAlreadyExists = errors.New("car with this make and model already exists")
)
