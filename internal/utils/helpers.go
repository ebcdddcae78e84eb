// internal/utils/helpers.go
// General utility functions

package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID, used for session and player ids
// when a caller does not supply its own.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	return fmt.Sprintf("req_%s", GenerateUUID())
}
