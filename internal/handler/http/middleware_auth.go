package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type tokenExpiryKey struct{}

// auth verifies the campaign token when the handler has a sign key.
//
// The token is read from the "auth" query parameter, the way the realtime
// REST dialect passes it, and falls back to an "Authorization: Bearer"
// header. On success the player id is stored under [utils.PlayerIDCtxKey]
// and the expiry is kept for open streams. Rejections answer 401 with a
// {"error": ...} body.
func (h *Handler) auth(next http.Handler) http.Handler {
	if h.signKey == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := tokenFromRequest(r)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseCampaignToken(tokenString, h.signKey, h.issuer)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				log.Err(err).Msg("token expired")
				utils.WriteError(w, ErrTokenExpired.Error(), http.StatusUnauthorized)
			default:
				log.Err(err).Msg("error occurred during parsing token")
				utils.WriteError(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
			}
			return
		}

		ctx := context.WithValue(r.Context(), utils.PlayerIDCtxKey, token.PlayerID)
		if token.ExpiresAt != nil {
			ctx = context.WithValue(ctx, tokenExpiryKey{}, token.ExpiresAt.Time)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if tokenString := r.URL.Query().Get("auth"); tokenString != "" {
		return tokenString, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrEmptyToken
	}
	return getTokenFromAuthHeader(authHeader)
}

// getTokenFromAuthHeader extracts the token from "Authorization: <scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}

func tokenExpiry(ctx context.Context) (time.Time, bool) {
	exp, ok := ctx.Value(tokenExpiryKey{}).(time.Time)
	return exp, ok
}
