package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTProtected(testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals("user_id"), "role": c.Locals("user_role")})
	})
	return app
}

func TestJWTProtectedStoresIdentity(t *testing.T) {
	app := protectedApp()
	token := signToken(t, jwt.MapClaims{"sub": "42", "role": "Recruiter", "exp": time.Now().Add(time.Hour).Unix()}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsBadTokens(t *testing.T) {
	app := protectedApp()

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"wrong secret": "Bearer " + signToken(t, jwt.MapClaims{"sub": "1", "role": "admin"}, "other"),
		"expired":      "Bearer " + signToken(t, jwt.MapClaims{"sub": "1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret),
		"no subject":   "Bearer " + signToken(t, jwt.MapClaims{"role": "admin"}, testSecret),
		"legacy id":    "Bearer " + signToken(t, jwt.MapClaims{"user_id": "1", "role": "admin"}, testSecret),
		"unknown role": "Bearer " + signToken(t, jwt.MapClaims{"sub": "1", "role": "superuser"}, testSecret),
		"unsigned":     "Bearer " + unsignedToken(t, jwt.MapClaims{"sub": "1", "role": "admin"}),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}

func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}

func TestJWTProtectedExposesSubjectAndRole(t *testing.T) {
	app := protectedApp()
	token := signToken(t, jwt.MapClaims{"sub": "42", "role": " HR "}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, uint(42), body.ID)
	require.Equal(t, "hr", body.Role)
}

func TestIdentityFromClaims(t *testing.T) {
	id, role, err := identityFromClaims(AccessClaims{Role: "Candidate", RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}})
	require.NoError(t, err)
	require.Equal(t, uint(7), id)
	require.Equal(t, "candidate", role)

	for _, claims := range []AccessClaims{
		{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}},
		{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "0"}},
		{Role: "", RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}},
	} {
		_, _, err := identityFromClaims(claims)
		require.Error(t, err)
	}
}

func TestRateLimitRejectsBurst(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(9))
		return c.Next()
	})
	app.Put("/score", RateLimit("score", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/score", nil), -1)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	require.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestCorrelationIDEchoesIncomingHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(CorrelationIDFromContext(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "req-123", resp.Header.Get("X-Correlation-ID"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "req-123", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	generated := resp.Header.Get("X-Correlation-ID")
	_, err = uuid.Parse(generated)
	require.NoError(t, err)
}

func TestContextWithCorrelationIgnoresBlankIDs(t *testing.T) {
	ctx := ContextWithCorrelation(context.Background(), "  ")
	require.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithCorrelation(ctx, " abc ")
	require.Equal(t, "abc", CorrelationIDFromContext(ctx))
}
