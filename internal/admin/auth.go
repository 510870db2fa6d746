package admin

import (
	"crypto/subtle"
	"strings"
	"time"

	"backend-trollfeed/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// Guard checks the shared admin secret. There are no admin accounts: one
// password (or its bcrypt hash) gates every moderation call, either directly
// or via a short-lived token from /admin/login.
type Guard struct {
	password string
	hash     string
	secret   []byte
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewGuard(cfg config.Config) *Guard {
	return &Guard{
		password: cfg.AdminPassword,
		hash:     cfg.AdminPasswordHash,
		secret:   []byte(cfg.AdminTokenSecret),
	}
}

func (g *Guard) Check(password string) bool {
	if password == "" {
		return false
	}
	if g.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(g.hash), []byte(password)) == nil
	}
	if g.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.password), []byte(password)) == 1
}

func (g *Guard) IssueToken() (string, error) {
	claims := adminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

func (g *Guard) VerifyToken(token string) bool {
	parsed, err := jwt.ParseWithClaims(token, &adminClaims{}, func(_ *jwt.Token) (interface{}, error) {
		return g.secret, nil
	})
	if err != nil {
		return false
	}
	claims, ok := parsed.Claims.(*adminClaims)
	return ok && parsed.Valid && claims.Role == "admin"
}

// Middleware admits a bearer token, a ?token= query (websocket clients
// cannot set headers), a ?password= query, or a password field in the body.
// Mismatches are 403 and never reach the handler.
func (g *Guard) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := parseBearer(c.Get("Authorization")); token != "" && g.VerifyToken(token) {
			return c.Next()
		}
		if token := c.Query("token"); token != "" && g.VerifyToken(token) {
			return c.Next()
		}
		if password := c.Query("password"); g.Check(password) {
			return c.Next()
		}
		var body struct {
			Password string `json:"password"`
		}
		if err := c.BodyParser(&body); err == nil && g.Check(body.Password) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "unauthorized")
	}
}

func parseBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
