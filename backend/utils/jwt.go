package utils

import (
	"pathtracker/backend/config"
	"pathtracker/backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken mints a bearer token carrying the identity-provider claims.
// The server never issues tokens itself in production; this exists for
// tooling and tests.
func GenerateToken(identity models.Identity, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":        identity.ExternalID,
		"email":      identity.Email,
		"first_name": identity.FirstName,
		"last_name":  identity.LastName,
		"image_url":  identity.ImageURL,
		"exp":        time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractIdentityFromToken validates the Authorization header and returns
// the identity the provider asserted about the caller.
func ExtractIdentityFromToken(c *fiber.Ctx, cfg *config.Config) (*models.Identity, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid subject in token")
	}

	return &models.Identity{
		ExternalID: sub,
		Email:      stringClaim(claims, "email"),
		FirstName:  stringClaim(claims, "first_name"),
		LastName:   stringClaim(claims, "last_name"),
		ImageURL:   stringClaim(claims, "image_url"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
