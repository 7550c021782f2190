package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
)

// NotFoundError reports a lookup by primary key that matched no row.
type NotFoundError struct {
	Model string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no query results for model [%s] %s", e.Model, e.ID)
}

func notFoundOr(err error, model, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Model: model, ID: id}
	}
	return err
}
