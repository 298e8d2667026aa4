package middleware

import (
	"strings"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/repository"
	"compta-pme-api/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserID          = "user_id"
	localSocieteID       = "societe_id"
	localWatchedSocietes = "watched_societes"
)

// RequireAuth is middleware that validates the JWT and sets the user info in context
func RequireAuth(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Missing authorization token")
		}

		// "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		userID, err := userFromToken(tokens, parts[1])
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(localUserID, userID)
		return c.Next()
	}
}

// RequireWebsocketAuth guards the websocket upgrade. Browsers cannot set headers
// on an upgrade, so the token comes from the "token" query parameter, falling back
// to the Authorization header. The connection will only receive events of the
// sociétés the user owns.
func RequireWebsocketAuth(tokens *jwt.Manager, societeRepo repository.SocieteRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))
		}
		if token == "" {
			return unauthorized(c, "Missing authorization token")
		}

		userID, err := userFromToken(tokens, token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}

		societes, err := societeRepo.FindByOwner(userID)
		if err != nil {
			appErr := apperror.NewInternal(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"error": appErr.Message, "code": appErr.Code})
		}
		ids := make([]string, 0, len(societes))
		for _, societe := range societes {
			ids = append(ids, societe.ID.String())
		}

		c.Locals(localUserID, userID)
		c.Locals(localWatchedSocietes, ids)
		return c.Next()
	}
}

func userFromToken(tokens *jwt.Manager, token string) (uuid.UUID, error) {
	claims, err := tokens.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}

// RequireSocieteAccess resolves :societeId and lets the request through only
// when the authenticated user owns that société. Anything else answers 404 so
// that other tenants' ids cannot be probed.
func RequireSocieteAccess(societeRepo repository.SocieteRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}

		societeID, err := uuid.Parse(c.Params("societeId"))
		if err != nil {
			return societeNotFound(c)
		}

		owned, err := societeRepo.IsOwnedBy(societeID, userID)
		if err != nil {
			appErr := apperror.NewInternal(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"error": appErr.Message, "code": appErr.Code})
		}
		if !owned {
			return societeNotFound(c)
		}

		c.Locals(localSocieteID, societeID)
		return c.Next()
	}
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(localUserID).(uuid.UUID)
	return id, ok
}

// SocieteID returns the tenant set by RequireSocieteAccess.
func SocieteID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(localSocieteID).(uuid.UUID)
	return id, ok
}

// WatchedSocietes returns the société ids stored by RequireWebsocketAuth. It
// reads the locals of the upgraded connection.
func WatchedSocietes(conn *websocket.Conn) []string {
	ids, _ := conn.Locals(localWatchedSocietes).([]string)
	return ids
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message, "code": apperror.CodeUnauthorized})
}

func societeNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "societe not found", "code": apperror.CodeNotFound})
}
