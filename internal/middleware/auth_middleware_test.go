package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"
	"compta-pme-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ownerRepo answers FindByOwner from a fixed map.
type ownerRepo struct {
	repository.SocieteRepository
	byOwner map[uuid.UUID][]model.Societe
}

func (r *ownerRepo) FindByOwner(ownerID uuid.UUID) ([]model.Societe, error) {
	return r.byOwner[ownerID], nil
}

func societe(owner uuid.UUID) model.Societe {
	s := model.Societe{Nom: "S", OwnerID: owner}
	s.ID = uuid.New()
	return s
}

func upgradeRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	return req
}

func TestRequireWebsocketAuth_KeysOnOwnedSocietes(t *testing.T) {
	tokens := jwt.NewManager("middleware-secret-middleware-secret", time.Hour)
	alice, bob := uuid.New(), uuid.New()
	aliceSociete := societe(alice)
	repo := &ownerRepo{byOwner: map[uuid.UUID][]model.Societe{
		alice: {aliceSociete},
		bob:   {societe(bob), societe(bob)},
	}}

	app := fiber.New()
	app.Get("/ws", RequireWebsocketAuth(tokens, repo), func(c *fiber.Ctx) error {
		userID, _ := UserID(c)
		return c.JSON(fiber.Map{"user": userID, "societes": c.Locals(localWatchedSocietes)})
	})

	token, err := tokens.GenerateToken(alice, "alice@example.com", "PME")
	require.NoError(t, err)

	resp, err := app.Test(upgradeRequest("/ws?token="+token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User     uuid.UUID `json:"user"`
		Societes []string  `json:"societes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, alice, body.User)
	assert.Equal(t, []string{aliceSociete.ID.String()}, body.Societes)
}

func TestRequireWebsocketAuth_Rejections(t *testing.T) {
	tokens := jwt.NewManager("middleware-secret-middleware-secret", time.Hour)
	other := jwt.NewManager("another-secret-another-secret-another", time.Hour)
	user := uuid.New()
	repo := &ownerRepo{byOwner: map[uuid.UUID][]model.Societe{}}

	app := fiber.New()
	app.Get("/ws", RequireWebsocketAuth(tokens, repo), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	valid, err := tokens.GenerateToken(user, "u@example.com", "PME")
	require.NoError(t, err)
	forged, err := other.GenerateToken(user, "u@example.com", "PME")
	require.NoError(t, err)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"no token", upgradeRequest("/ws"), http.StatusUnauthorized},
		{"foreign signature", upgradeRequest("/ws?token=" + forged), http.StatusUnauthorized},
		{"plain GET", httptest.NewRequest(http.MethodGet, "/ws?token="+valid, nil), http.StatusUpgradeRequired},
		{"header token", func() *http.Request {
			r := upgradeRequest("/ws")
			r.Header.Set("Authorization", "Bearer "+valid)
			return r
		}(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req, -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRequireAuth_SetsUserID(t *testing.T) {
	tokens := jwt.NewManager("middleware-secret-middleware-secret", time.Hour)
	user := uuid.New()

	app := fiber.New()
	app.Get("/me", RequireAuth(tokens), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(id.String())
	})

	token, err := tokens.GenerateToken(user, "u@example.com", "PME")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
