package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokpokpo/supply-api/internal/application/auth"
	"github.com/mokpokpo/supply-api/internal/application/dto"
	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/testutil"
	pkgjwt "github.com/mokpokpo/supply-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newUseCase(store *testutil.Store) *auth.UseCase {
	return auth.NewUseCase(&testutil.UserRepo{S: store}, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "supply-api-test",
	})
}

func TestRegisterWholesaler(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)

	out, err := uc.RegisterWholesaler(dto.RegisterRequest{
		Username: "  Grossiste1  ", Password: "secret123",
		FirstName: "Koffi", LastName: "Mensah",
	})
	require.NoError(t, err)

	assert.Equal(t, "grossiste1", out.Username, "username is trimmed and lowercased")
	assert.Equal(t, entity.RoleWholesaler, out.Role, "self-service signup is wholesaler only")
	assert.True(t, out.Active)

	stored := store.Users[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash, "password is never stored in clear")
}

func TestRegisterWholesaler_DuplicateUsername(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)

	_, err := uc.RegisterWholesaler(dto.RegisterRequest{Username: "grossiste1", Password: "a"})
	require.NoError(t, err)
	_, err = uc.RegisterWholesaler(dto.RegisterRequest{Username: "GROSSISTE1", Password: "b"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterWholesaler_MissingCredentials(t *testing.T) {
	uc := newUseCase(testutil.NewStore())

	_, err := uc.RegisterWholesaler(dto.RegisterRequest{Username: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterWholesaler(dto.RegisterRequest{Username: "x", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateStaff(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)

	out, err := uc.CreateStaff(dto.RegisterRequest{Username: "magasinier1", Password: "pw"}, entity.RoleStock)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStock, out.Role)

	_, err = uc.CreateStaff(dto.RegisterRequest{Username: "x", Password: "pw"}, "superadmin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "roles are a closed set")
}

func TestLogin(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	_, err := uc.CreateStaff(dto.RegisterRequest{Username: "livreur1", Password: "pw"}, entity.RoleDriver)
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Username: "Livreur1", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleDriver, role, "token carries the role claim")
}

func TestLogin_BadCredentials(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	_, err := uc.CreateStaff(dto.RegisterRequest{Username: "livreur1", Password: "pw"}, entity.RoleDriver)
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Username: "livreur1", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(dto.LoginRequest{Username: "nobody", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_InactiveUser(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	out, err := uc.CreateStaff(dto.RegisterRequest{Username: "livreur1", Password: "pw"}, entity.RoleDriver)
	require.NoError(t, err)

	store.Users[out.ID].Active = false
	_, err = uc.Login(dto.LoginRequest{Username: "livreur1", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
