package domain

import "github.com/google/uuid"

// Identity is the verified caller identity issued by the external auth
// backend. Every core operation requires one.
type Identity struct {
	ID    uuid.UUID
	Email string
}
