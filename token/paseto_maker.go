package token

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
	"golang.org/x/crypto/chacha20poly1305"
)

// PasetoMaker seals payloads as PASETO v2 local tokens.
type PasetoMaker struct {
	paseto *paseto.V2
	key    []byte
}

// NewPasetoMaker expects a key of exactly chacha20poly1305.KeySize bytes.
func NewPasetoMaker(symmetricKey string) (Maker, error) {
	if len(symmetricKey) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be exactly %d characters", chacha20poly1305.KeySize)
	}
	return &PasetoMaker{paseto: paseto.NewV2(), key: []byte(symmetricKey)}, nil
}

func (m *PasetoMaker) CreateToken(kind Kind, userID uuid.UUID, email string, duration time.Duration) (string, error) {
	payload, err := NewPayload(kind, userID, email, duration)
	if err != nil {
		return "", fmt.Errorf("build %s token payload: %w", kind, err)
	}
	return m.seal(payload)
}

func (m *PasetoMaker) seal(payload *Payload) (string, error) {
	sealed, err := m.paseto.Encrypt(m.key, payload, nil)
	if err != nil {
		return "", fmt.Errorf("encrypt token: %w", err)
	}
	return sealed, nil
}

func (m *PasetoMaker) VerifyToken(token string, kind Kind) (*Payload, error) {
	var payload Payload
	if err := m.paseto.Decrypt(token, m.key, &payload, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := payload.Check(kind, time.Now()); err != nil {
		return nil, err
	}
	return &payload, nil
}
