package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
)

const identityKey = "identity"

var ErrNoIdentity = errors.New("no identity in context")

// Middleware verifies the bearer token minted by the external auth backend
// and places the caller identity into the gin context. Claims expected:
// user_id (uuid) and email, HS256-signed with the shared secret.
func Middleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		identity, err := parseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx.Set(identityKey, identity)
		ctx.Next()
	}
}

// FromContext returns the identity the middleware stored.
func FromContext(ctx *gin.Context) (domain.Identity, error) {
	value, ok := ctx.Get(identityKey)
	if !ok {
		return domain.Identity{}, ErrNoIdentity
	}
	identity, ok := value.(domain.Identity)
	if !ok {
		return domain.Identity{}, ErrNoIdentity
	}
	return identity, nil
}

func parseToken(tokenString, secret string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, errors.New("invalid token claims")
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		// some backends put the subject claim instead
		rawID, ok = claims["sub"].(string)
		if !ok {
			return domain.Identity{}, errors.New("token has no user id")
		}
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Identity{}, errors.New("token user id is not a uuid")
	}

	email, _ := claims["email"].(string)

	return domain.Identity{ID: userID, Email: email}, nil
}
