package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// UserStore defines read access to user accounts. Account creation and
// credential management live in the identity service, not in this engine.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// WithTx returns a UserStore bound to the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
