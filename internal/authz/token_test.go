package authz

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	_ "github.com/cqtrails/cqtrails-admin/testing"
)

const testSecret = "integration-test-secret-key-0123456789"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, "cqtrails", "cqtrails-admin")
	require.NoError(t, err)
	return v
}

func TestVerifierRoundTrip(t *testing.T) {
	v := newTestVerifier(t)

	raw, err := v.Sign(Claims{
		UserID:      7,
		Email:       "empleado@cqtrails.local",
		Role:        "Empleado",
		Permissions: []string{"vehiculos", "reservaciones"},
	}, time.Hour)
	require.NoError(t, err)

	p, err := v.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.UserID)
	require.Equal(t, "empleado@cqtrails.local", p.Email)
	require.Equal(t, "Empleado", p.Role)
	require.Equal(t, []string{"vehiculos", "reservaciones"}, p.Permissions)
}

func TestVerifierExpiredToken(t *testing.T) {
	v := newTestVerifier(t)

	claims := Claims{UserID: 7, Role: "Empleado"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	raw, err := v.Sign(claims, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifierWrongSecret(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier("another-secret-entirely-0123456789ab", "cqtrails", "cqtrails-admin")
	require.NoError(t, err)

	raw, err := other.Sign(Claims{UserID: 7, Role: "Empleado"}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifierIssuerMismatch(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier(testSecret, "someone-else", "cqtrails-admin")
	require.NoError(t, err)

	raw, err := other.Sign(Claims{UserID: 7, Role: "Empleado"}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifierMissingClaims(t *testing.T) {
	v := newTestVerifier(t)

	raw, err := v.Sign(Claims{Email: "nobody@cqtrails.local"}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifierGarbageToken(t *testing.T) {
	v := newTestVerifier(t)
	_, err := v.Verify("not-a-token")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("", "cqtrails", "cqtrails-admin")
	require.Error(t, err)
}
