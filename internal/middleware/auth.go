package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

const identityLocal = "identity"

// ReviewerClaims is the token payload carried by QC staff tokens.
type ReviewerClaims struct {
	ReviewerID string `json:"reviewer_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func tokenSecret() []byte {
	return []byte(os.Getenv("ACCESS_TOKEN_SECRET"))
}

// RequireAuth validates the bearer token and stores the caller identity in
// the request locals.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		claims := &ReviewerClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) { return tokenSecret(), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.ReviewerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(identityLocal, services.Identity{
			ReviewerID: claims.ReviewerID,
			Role:       models.ReviewerRole(claims.Role),
		})
		return c.Next()
	}
}

// RequireSupervisor rejects callers without the supervisor role. Must run
// after RequireAuth.
func RequireSupervisor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CallerIdentity(c).Supervisor() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Supervisor role required",
			})
		}
		return c.Next()
	}
}

// CallerIdentity returns the identity stored by RequireAuth, or the zero
// identity for unauthenticated requests.
func CallerIdentity(c *fiber.Ctx) services.Identity {
	if id, ok := c.Locals(identityLocal).(services.Identity); ok {
		return id
	}
	return services.Identity{}
}

// SignToken issues a token for the given reviewer, used by tests and
// operational tooling.
func SignToken(reviewerID string, role models.ReviewerRole, ttl time.Duration) (string, error) {
	claims := ReviewerClaims{
		ReviewerID: reviewerID,
		Role:       string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tokenSecret())
}
