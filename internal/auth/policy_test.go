package auth

import (
	"testing"

	"github.com/medwaste/classify-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRoleOfFollowsFlagNotEmail(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
		want     Role
	}{
		{
			name:     "standard user",
			identity: models.Identity{ID: "u1", Email: "user@example.com"},
			want:     RoleStandard,
		},
		{
			name:     "administrator flag set",
			identity: models.Identity{ID: "u2", Email: "user@example.com", IsAdministrator: true},
			want:     RoleAdministrator,
		},
		{
			name: "admin-looking email without the flag stays standard",
			identity: models.Identity{
				ID:    "u3",
				Email: "admin@gmail.com",
			},
			want: RoleStandard,
		},
		{
			name:     "empty identity",
			identity: models.Identity{},
			want:     RoleStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleOf(tt.identity))
		})
	}
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "standard", RoleStandard.String())
	assert.Equal(t, "administrator", RoleAdministrator.String())
}

func TestAdminCredentialMatch(t *testing.T) {
	cred := AdminCredential{Email: "admin@gmail.com", Password: "admin"}

	assert.True(t, cred.Match("admin@gmail.com", "admin"))
	assert.False(t, cred.Match("admin@gmail.com", "wrong"))
	assert.False(t, cred.Match("other@gmail.com", "admin"))
	assert.False(t, cred.Match("", ""))
}

func TestAdminCredentialEmptyPairNeverMatches(t *testing.T) {
	// An unset pair disables the bootstrap administrator entirely.
	assert.False(t, AdminCredential{}.Match("", ""))
	assert.False(t, AdminCredential{Email: "admin@gmail.com"}.Match("admin@gmail.com", ""))
	assert.False(t, AdminCredential{Password: "admin"}.Match("", "admin"))
}

func TestAdminCredentialIdentity(t *testing.T) {
	cred := AdminCredential{Email: "admin@gmail.com", Password: "admin"}
	identity := cred.Identity()

	assert.Equal(t, models.LocalAdminID, identity.ID)
	assert.Equal(t, "admin@gmail.com", identity.Email)
	assert.True(t, identity.IsAdministrator)
	assert.True(t, identity.Synthetic())
}
