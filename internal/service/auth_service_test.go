package service

import (
	"testing"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pmeRequest(email string) *RegisterPmeRequest {
	return &RegisterPmeRequest{
		RegisterExpertRequest: RegisterExpertRequest{
			Email:    email,
			Password: "secret123",
			Name:     "Awa Diallo",
			Phone:    "+225 0102030405",
		},
		SocieteNom: "Boutique Awa",
	}
}

func TestRegisterPme_CreatesUserAndSociete(t *testing.T) {
	f := newFixture(t)

	resp, err := f.auth.RegisterPme(pmeRequest(" Awa@Example.com "))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "awa@example.com", resp.User.Email)
	assert.Equal(t, model.RolePME, resp.User.Role)
	require.NotNil(t, resp.Societe)
	assert.Equal(t, "Boutique Awa", resp.Societe.Nom)
	assert.Equal(t, resp.User.ID, resp.Societe.OwnerID)

	claims, err := f.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "awa@example.com", claims.Email)
	assert.Equal(t, string(model.RolePME), claims.Role)

	owned, err := f.societeRepo.IsOwnedBy(resp.Societe.ID, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	stored, err := f.userRepo.FindByEmail("awa@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password, "password is stored hashed")
	assert.True(t, stored.CheckPassword("secret123"))
}

func TestRegisterPme_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.RegisterPme(pmeRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = f.auth.RegisterPme(pmeRequest("DUP@example.com"))
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, apperror.CodeConflict, apperror.From(err).Code)

	societes, err := f.societeRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, societes, 1, "no société is created for a rejected registration")
}

func TestRegisterPme_Validation(t *testing.T) {
	f := newFixture(t)

	req := pmeRequest("short@example.com")
	req.Password = "123"
	_, err := f.auth.RegisterPme(req)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.From(err).Code)

	req = pmeRequest("nosociete@example.com")
	req.SocieteNom = ""
	_, err = f.auth.RegisterPme(req)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestRegisterExpert_NoSociete(t *testing.T) {
	f := newFixture(t)

	resp, err := f.auth.RegisterExpert(&RegisterExpertRequest{Email: "expert@example.com", Password: "secret123", Name: "Expert"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleExpert, resp.User.Role)
	assert.Nil(t, resp.Societe)

	me, err := f.auth.Me(resp.User.ID)
	require.NoError(t, err)
	assert.Empty(t, me.Societes)
	assert.NotNil(t, me.Societes)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.RegisterPme(pmeRequest("login@example.com"))
	require.NoError(t, err)

	resp, err := f.auth.Login("LOGIN@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "login@example.com", resp.User.Email)

	_, err = f.auth.Login("login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe_ListsOwnedSocietes(t *testing.T) {
	f := newFixture(t)
	resp, err := f.auth.RegisterPme(pmeRequest("me@example.com"))
	require.NoError(t, err)

	me, err := f.auth.Me(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", me.User.Email)
	require.Len(t, me.Societes, 1)
	assert.Equal(t, resp.Societe.ID, me.Societes[0].ID)
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.CreateUser(&CreateUserRequest{Email: "direct@example.com", Password: "secret123", Name: "Direct"})
	require.NoError(t, err)
	assert.Equal(t, model.RolePME, user.Role, "role defaults to PME")

	got, err := f.users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "direct@example.com", got.Email)

	_, err = f.users.CreateUser(&CreateUserRequest{Email: "direct@example.com", Password: "secret123", Name: "Again"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = f.users.CreateUser(&CreateUserRequest{Email: "role@example.com", Password: "secret123", Name: "Role", Role: "ADMIN"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.From(err).Code)

	societes, err := f.societeRepo.FindByOwner(user.ID)
	require.NoError(t, err)
	assert.Empty(t, societes)
}
