package token

import (
	"time"

	"github.com/google/uuid"
)

// Maker issues and checks session tokens. A token verifies only as the kind it was issued as.
type Maker interface {
	CreateToken(kind Kind, userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(token string, kind Kind) (*Payload, error)
}
