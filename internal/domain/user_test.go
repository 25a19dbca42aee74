package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	id := uuid.New()

	testCases := []struct {
		name string
		user User
		want string
	}{
		{
			name: "username preferred",
			user: User{ID: id, Email: "alex@example.com", Username: "alex_jp"},
			want: "alex_jp",
		},
		{
			name: "email local part fallback",
			user: User{ID: id, Email: "alex@example.com"},
			want: "alex",
		},
		{
			name: "hidden username anonymized",
			user: User{ID: id, Email: "alex@example.com", Username: "alex_jp", UsernameHidden: true},
			want: "User " + id.String()[:8],
		},
		{
			name: "no username or usable email",
			user: User{ID: id, Email: "@broken"},
			want: "User",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.DisplayName())
		})
	}
}
