package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/testutil"
)

func newResetFixture(t *testing.T) (*ResetTokens, *models.User) {
	t.Helper()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "reset")
	return NewResetTokens("test-secret", 0, NewUserService(db)), user
}

func TestResetTokens_RoundTrip(t *testing.T) {
	ctx := context.Background()
	resets, user := newResetFixture(t)

	token, err := resets.Issue(user, 0)
	require.NoError(t, err)

	got, err := resets.Verify(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, user.ID, got.ID)
}

func TestResetTokens_Payload(t *testing.T) {
	resets, user := newResetFixture(t)
	issued := time.Now()

	token, err := resets.Issue(user, 0)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, "HS256", parsed.Method.Alg())
	require.Len(t, claims, 2)
	require.EqualValues(t, user.ID, claims["reset_password"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, issued.Add(DefaultResetTokenTTL), exp.Time, 2*time.Second)
}

func TestResetTokens_Expired(t *testing.T) {
	ctx := context.Background()
	resets, user := newResetFixture(t)

	token, err := resets.Issue(user, time.Minute)
	require.NoError(t, err)

	resets.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	got, err := resets.Verify(ctx, token)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestResetTokens_Rejected(t *testing.T) {
	ctx := context.Background()
	resets, user := newResetFixture(t)

	valid, err := resets.Issue(user, 0)
	require.NoError(t, err)

	other := NewResetTokens("other-secret", 0, resets.users)
	foreign, err := other.Issue(user, 0)
	require.NoError(t, err)

	ghost, err := resets.Issue(&models.User{ID: user.ID + 100}, 0)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"reset_password": user.ID}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"tampered":     valid[:strings.LastIndex(valid, ".")] + foreign[strings.LastIndex(foreign, "."):],
		"wrong secret": foreign,
		"missing user": ghost,
		"no expiry":    noExp,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := resets.Verify(ctx, token)
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestResetTokens_ResetPassword(t *testing.T) {
	ctx := context.Background()
	resets, user := newResetFixture(t)

	_, err := resets.ResetPassword(ctx, "bogus", "new-pass")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	token, err := resets.Issue(user, 0)
	require.NoError(t, err)
	_, err = resets.ResetPassword(ctx, token, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err := resets.ResetPassword(ctx, token, "new-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, updated.ID)

	_, err = resets.users.Authenticate(ctx, "reset", "new-pass")
	require.NoError(t, err)
}
