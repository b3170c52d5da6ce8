package access_test

import (
	"testing"

	"github.com/equipe-feedtrack/feedtrack/internal/access"
	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"github.com/stretchr/testify/assert"
)

func user(role domain.Role) *domain.User {
	return &domain.User{Username: string(role), Role: role}
}

func TestEvaluate(t *testing.T) {
	p := access.Default()

	tests := []struct {
		name     string
		path     string
		user     *domain.User
		outcome  access.Outcome
		redirect string
	}{
		{"public landing anonymous", "/", nil, access.Allow, ""},
		{"login anonymous", "/login", nil, access.Allow, ""},
		{"protected anonymous", "/customers", nil, access.RedirectLogin, "/login"},
		{"protected employee", "/customers", user(domain.RoleEmployee), access.Allow, ""},
		{"trailing slash", "/feedbacks/", user(domain.RoleEmployee), access.Allow, ""},
		{"query ignored", "/campaigns?tab=2", user(domain.RoleEmployee), access.Allow, ""},
		{"reports employee", "/reports", user(domain.RoleEmployee), access.Forbidden, "/home"},
		{"reports admin", "/reports", user(domain.RoleAdmin), access.Allow, ""},
		{"settings master", "/settings", user(domain.RoleMaster), access.Allow, ""},
		{"unknown authenticated", "/nope", user(domain.RoleAdmin), access.NotFound, ""},
		{"unknown anonymous", "/nope", nil, access.RedirectLogin, "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Evaluate(tt.path, tt.user)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestNavigation_PerRole(t *testing.T) {
	p := access.Default()

	employee := p.Navigation(domain.RoleEmployee)
	admin := p.Navigation(domain.RoleAdmin)
	master := p.Navigation(domain.RoleMaster)

	assert.Len(t, employee, 6)
	assert.Len(t, admin, 8)
	assert.Equal(t, admin, master)

	for _, item := range employee {
		assert.NotEqual(t, "/reports", item.Path)
		assert.NotEqual(t, "/settings", item.Path)
	}
	assert.Equal(t, "/home", employee[0].Path)
}

func TestAllows(t *testing.T) {
	assert.True(t, access.Allows(access.Public, ""))
	assert.False(t, access.Allows(access.Authenticated, "guest"))
	assert.True(t, access.Allows(access.Authenticated, domain.RoleEmployee))
	assert.False(t, access.Allows(access.Privileged, domain.RoleEmployee))
	assert.True(t, access.Allows(access.Privileged, domain.RoleMaster))
}
