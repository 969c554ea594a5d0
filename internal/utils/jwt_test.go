package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateCampaignToken_Success(t *testing.T) {
	claims := models.AuthClaims{PlayerID: "-Mp1", UserID: 77, IsGM: true, CurrentCampaign: "c1"}

	token, err := GenerateCampaignToken("test-issuer", claims, time.Hour, "secret-key")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Subject != "-Mp1" {
		t.Errorf("expected subject '-Mp1', got %s", token.Subject)
	}
	if token.Issuer != "test-issuer" {
		t.Errorf("expected issuer test-issuer, got %s", token.Issuer)
	}
}

func TestGenerateCampaignToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		player   string
		duration time.Duration
		key      string
		want     error
	}{
		{"empty issuer", "", "p", time.Hour, "key", ErrInvalidTokenParams},
		{"zero duration", "iss", "p", 0, "key", ErrInvalidTokenParams},
		{"empty key", "iss", "p", time.Hour, "", ErrInvalidTokenParams},
		{"empty player", "iss", "", time.Hour, "key", ErrMissingPlayerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateCampaignToken(tt.issuer, models.AuthClaims{PlayerID: tt.player}, tt.duration, tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateAndParseCampaignToken_Success(t *testing.T) {
	genToken, _ := GenerateCampaignToken("test-issuer", models.AuthClaims{PlayerID: "-Mp2", IsGM: true}, 5*time.Minute, "secret-key")

	parsed, err := ValidateAndParseCampaignToken(genToken.SignedString, "secret-key", "test-issuer")

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsed.PlayerID != "-Mp2" || !parsed.IsGM {
		t.Errorf("unexpected claims: %+v", parsed.AuthClaims)
	}
}

func TestValidateAndParseCampaignToken_InvalidKey(t *testing.T) {
	genToken, _ := GenerateCampaignToken("iss", models.AuthClaims{PlayerID: "p"}, time.Hour, "correct-key")

	if _, err := ValidateAndParseCampaignToken(genToken.SignedString, "wrong-key", "iss"); err == nil {
		t.Error("expected error due to signature mismatch, got nil")
	}
}

func TestValidateAndParseCampaignToken_Expired(t *testing.T) {
	genToken, _ := GenerateCampaignToken("iss", models.AuthClaims{PlayerID: "p"}, -time.Second, "key")

	_, err := ValidateAndParseCampaignToken(genToken.SignedString, "key", "iss")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateAndParseCampaignToken_WrongIssuer(t *testing.T) {
	genToken, _ := GenerateCampaignToken("real-issuer", models.AuthClaims{PlayerID: "p"}, time.Hour, "key")

	if _, err := ValidateAndParseCampaignToken(genToken.SignedString, "key", "fake-issuer"); err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseCampaignToken_Malformed(t *testing.T) {
	if _, err := ValidateAndParseCampaignToken("not.a.token", "key", "iss"); err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func signMap(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestParseAuthClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   models.Auth
	}{
		{
			name:   "top level",
			claims: jwt.MapClaims{"sub": "u1", "playerid": "-Mp1", "is_gm": true, "exp": exp},
			want:   models.Auth{UID: "u1", PlayerID: "-Mp1", IsGM: true, Expires: exp},
		},
		{
			name:   "nested claims",
			claims: jwt.MapClaims{"sub": "u2", "claims": map[string]any{"playerid": "-Mp2", "currentcampaign": "c9"}},
			want:   models.Auth{UID: "u2", PlayerID: "-Mp2", Campaign: "c9"},
		},
		{
			name:   "legacy payload",
			claims: jwt.MapClaims{"v": 0, "d": map[string]any{"uid": "u3", "playerid": "-Mp3"}},
			want:   models.Auth{UID: "u3", PlayerID: "-Mp3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuthClaims(signMap(t, tt.claims))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseAuthClaims_NoPlayerID(t *testing.T) {
	_, err := ParseAuthClaims(signMap(t, jwt.MapClaims{"sub": "u1"}))
	if !errors.Is(err, ErrMissingPlayerID) {
		t.Errorf("expected ErrMissingPlayerID, got %v", err)
	}
}

func TestParseAuthClaims_Malformed(t *testing.T) {
	if _, err := ParseAuthClaims("garbage"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestParseBearerToken(t *testing.T) {
	got, err := ParseBearerToken("Bearer abc")
	if err != nil || got != "abc" {
		t.Errorf("expected abc, got %q (%v)", got, err)
	}
	if _, err := ParseBearerToken("Bearer"); err == nil {
		t.Error("expected error for header without token")
	}
}
