package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftforge/internal/models"
	"shiftforge/internal/repositories"
)

type fakeUserRepo struct {
	repositories.UserRepository
	created *models.User
}

func (f *fakeUserRepo) CreateUser(executor repositories.SQLExecutor, user *models.User) (*models.User, error) {
	f.created = user
	return user, nil
}

func registerPayload(role, code string) RegisterRequest {
	return RegisterRequest{
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  "correct-horse",
		Role:      role,
		AdminCode: code,
	}
}

func TestRegister_AdminRoleRejectedWithoutCode(t *testing.T) {
	// An empty ADMIN_REGISTRATION_CODE disables admin self-registration.
	t.Setenv("ADMIN_REGISTRATION_CODE", "")
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, nil)

	_, err := svc.Register(registerPayload("ADMIN", ""))
	require.ErrorIs(t, err, ErrAdminCodeRequired)
	assert.Nil(t, repo.created)
}

func TestRegister_AdminRoleRejectedWithWrongCode(t *testing.T) {
	t.Setenv("ADMIN_REGISTRATION_CODE", "s3cret")
	svc := NewAuthService(&fakeUserRepo{}, nil)

	_, err := svc.Register(registerPayload("ADMIN", "guess"))
	require.ErrorIs(t, err, ErrAdminCodeRequired)
}

func TestRegister_AdminRoleAcceptedWithMatchingCode(t *testing.T) {
	t.Setenv("ADMIN_REGISTRATION_CODE", "s3cret")
	svc := NewAuthService(&fakeUserRepo{}, nil)

	user, err := svc.Register(registerPayload("ADMIN", "s3cret"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRegister_DefaultsToEmployeeRole(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, nil)

	user, err := svc.Register(registerPayload("", ""))
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

func TestRegisterEmployee_ForcesEmployeeRole(t *testing.T) {
	// The admin-side creation route never honors a role from the payload,
	// and bypasses the registration-code gate entirely.
	svc := NewAuthService(&fakeUserRepo{}, nil)

	user, err := svc.RegisterEmployee(registerPayload("ADMIN", ""))
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)
}
