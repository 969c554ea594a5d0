package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidTokenParams = errors.New("invalid params for generating JWT token")
	ErrMissingPlayerID    = errors.New("token carries no player id")
)

// GenerateCampaignToken creates a signed HMAC-SHA256 custom token for a player.
//
// The token carries the campaign claims (playerid, userid, is_gm,
// currentcampaign) next to the registered ones: iss, sub (the player id),
// iat and exp. issuer, playerID, tokenDuration and signKey are required.
//
//	token, err := utils.GenerateCampaignToken("devserver", models.AuthClaims{PlayerID: "-Mp1"}, time.Hour, "secret")
func GenerateCampaignToken(issuer string, claims models.AuthClaims, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, ErrInvalidTokenParams
	}
	if claims.PlayerID == "" {
		return models.Token{}, ErrMissingPlayerID
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   claims.PlayerID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, AuthClaims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseCampaignToken verifies the signature, issuer and expiry of
// tokenString and returns its claims. A token without a player id is rejected.
func ValidateAndParseCampaignToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	claims := &models.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.PlayerID == "" {
		return models.Token{}, ErrMissingPlayerID
	}

	return models.Token{Token: token, AuthClaims: *claims, SignedString: tokenString}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer x" header.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// ParseAuthClaims reads the campaign claims of tokenString without verifying
// its signature; the backend that accepts the token is the authority.
//
// Claims are looked up at the top level first, then under a nested "claims"
// object and finally under the legacy "d" payload.
func ParseAuthClaims(tokenString string) (models.Auth, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return models.Auth{}, fmt.Errorf("error occurred parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Auth{}, errors.New("invalid token claims")
	}

	var auth models.Auth
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		auth.Expires = exp.Unix()
	}
	auth.UID, _ = claims.GetSubject()

	for _, scope := range []map[string]any{claims, nested(claims, "claims"), nested(claims, "d")} {
		if scope == nil {
			continue
		}
		if id, _ := scope["playerid"].(string); id != "" {
			auth.PlayerID = id
			auth.IsGM, _ = scope["is_gm"].(bool)
			auth.Campaign, _ = scope["currentcampaign"].(string)
			if uid, _ := scope["uid"].(string); uid != "" {
				auth.UID = uid
			}
			return auth, nil
		}
	}

	return models.Auth{}, ErrMissingPlayerID
}

func nested(claims jwt.MapClaims, key string) map[string]any {
	m, _ := claims[key].(map[string]any)
	return m
}
