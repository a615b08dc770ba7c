package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens_IssueAndParse(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)

	token, expiresAt, err := tokens.Issue(42)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.NotEmpty(t, claims.ID)

	other, _, err := tokens.Issue(42)
	require.NoError(t, err)
	otherClaims, err := tokens.Parse(other)
	require.NoError(t, err)
	require.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestSessionTokens_ParseRejects(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)

	foreign, _, err := NewSessionTokens("other", time.Hour).Issue(1)
	require.NoError(t, err)
	_, err = tokens.Parse(foreign)
	require.Error(t, err)

	expired, _, err := NewSessionTokens("secret", -time.Minute).Issue(1)
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	require.Error(t, err)

	anonymous, _, err := tokens.Issue(0)
	require.NoError(t, err)
	_, err = tokens.Parse(anonymous)
	require.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(none)
	require.Error(t, err)
}
