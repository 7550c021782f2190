package services

import (
	"fmt"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Owned is a row that belongs to exactly one user.
type Owned interface {
	OwnerID() uuid.UUID
}

func IsOwner(resource Owned, userID uuid.UUID) bool {
	return resource.OwnerID() == userID
}

// Authorize returns ErrForbidden unless userID owns resource. Denials are
// logged with the attempted action.
func Authorize(userID uuid.UUID, action string, resource Owned) error {
	if IsOwner(resource, userID) {
		return nil
	}

	zap.L().Info("authorization denied",
		zap.String("user_id", userID.String()),
		zap.String("owner_id", resource.OwnerID().String()),
		zap.String("resource", fmt.Sprintf("%T", resource)),
		zap.String("action", action),
	)
	return ErrForbidden
}
