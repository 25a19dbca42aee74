package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the engine's read-only projection of an account. Registration,
// authentication and profile management are owned by the identity
// service; this engine only needs display data for the leaderboard and a
// stable ID for foreign keys.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	UsernameHidden bool      `json:"username_hidden"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayName returns the name shown on public surfaces such as the
// leaderboard. Hidden usernames collapse to an anonymous handle derived
// from the user ID; absent usernames fall back to the email local part.
func (u *User) DisplayName() string {
	if u.UsernameHidden {
		return fmt.Sprintf("User %s", u.ID.String()[:8])
	}
	if u.Username != "" {
		return u.Username
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return "User"
}
