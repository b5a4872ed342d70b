package api

import (
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const positionsScope = "write:positions"

type CustomClaims struct {
	Scope string `json:"scope"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

func (c CustomClaims) HasScope(expected string) bool {
	for _, scope := range strings.Fields(c.Scope) {
		if scope == expected {
			return true
		}
	}

	return false
}

// PositionAuthEnabled reports whether an auth0 tenant is configured for position submission
func PositionAuthEnabled() bool {
	return os.Getenv("FASTROUTE_AUTH0_DOMAIN") != ""
}

// EnsureValidToken checks the bearer token and requires the write:positions scope
func EnsureValidToken() fiber.Handler {
	issuerURL, err := url.Parse("https://" + os.Getenv("FASTROUTE_AUTH0_DOMAIN") + "/")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse the issuer url")
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{os.Getenv("FASTROUTE_AUTH0_AUDIENCE")},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the jwt validator")
	}

	return func(c *fiber.Ctx) (err error) {
		authHeader := c.Get("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Bearer authorization header is required",
			})
		}

		jwtToken := strings.TrimPrefix(authHeader, "Bearer ")
		claimsI, jwtErr := jwtValidator.ValidateToken(c.UserContext(), jwtToken)
		if jwtErr != nil {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Invalid auth token",
			})
		}

		claims := claimsI.(*validator.ValidatedClaims)
		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.HasScope(positionsScope) {
			c.SendStatus(fiber.StatusForbidden)
			return c.JSON(fiber.Map{
				"error": "Token is missing the " + positionsScope + " scope",
			})
		}

		c.Locals("reporter", claims.RegisteredClaims.Subject)

		return c.Next()
	}
}
