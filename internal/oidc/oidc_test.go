package oidc

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestHMACVerifier_Valid(t *testing.T) {
	v, err := NewHMACVerifier(testSecret)
	require.NoError(t, err)

	raw := sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"name":  "Test User",
		"roles": []string{"ims-user"},
		"exp":   time.Now().Add(time.Minute).Unix(),
	})
	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-123", claims["sub"])
	require.Equal(t, []interface{}{"ims-user"}, claims["roles"])
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v, err := NewHMACVerifier(testSecret)
	require.NoError(t, err)
	ctx := context.Background()

	expired := sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err = v.Verify(ctx, expired)
	require.Error(t, err)

	wrongKey := sign(t, jwt.SigningMethodHS256, "another-secret-32-bytes-longgggg", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Minute).Unix()})
	_, err = v.Verify(ctx, wrongKey)
	require.Error(t, err)

	noExp := sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "u"})
	_, err = v.Verify(ctx, noExp)
	require.Error(t, err)

	otherAlg := sign(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Minute).Unix()})
	_, err = v.Verify(ctx, otherAlg)
	require.Error(t, err)

	_, err = NewHMACVerifier("")
	require.Error(t, err)
}

func TestInsecureVerifier(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, "whatever", jwt.MapClaims{"sub": "abc", "name": "Jo"})
	tok, err := NewInsecureVerifier().Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "abc", claims["sub"])

	_, err = NewInsecureVerifier().Verify(context.Background(), "garbage")
	require.Error(t, err)
}

func TestKeycloakIssuer(t *testing.T) {
	require.Equal(t, "https://kc.example.org/realms/egi", KeycloakIssuer("https://kc.example.org/", "egi"))
	require.Equal(t, "https://aai.egi.eu/auth/realms/egi", KeycloakIssuer("https://aai.egi.eu/auth/realms/egi", ""))
}
