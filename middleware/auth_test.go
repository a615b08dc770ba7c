package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/testutil"
	"github.com/cppla/microblog/utils"
)

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "zoe")
	tokens := utils.NewSessionTokens("secret", time.Hour)
	blacklist := utils.NewTokenBlacklist(nil)
	users := services.NewUserService(db)

	r := gin.New()
	r.GET("/me", AuthRequired(tokens, blacklist, users), LastSeen(users), func(ctx *gin.Context) {
		me, ok := CurrentUser(ctx)
		require.True(t, ok)
		ctx.String(http.StatusOK, me.Username)
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	valid, _, err := tokens.Issue(user.ID)
	require.NoError(t, err)
	rec := call("Bearer " + valid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "zoe", rec.Body.String())

	for name, header := range map[string]string{
		"missing":   "",
		"scheme":    "Basic abc",
		"empty":     "Bearer  ",
		"malformed": "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, http.StatusUnauthorized, call(header).Code)
		})
	}

	ghost, _, err := tokens.Issue(user.ID + 100)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, call("Bearer "+ghost).Code)

	claims, err := tokens.Parse(valid)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
	require.Equal(t, http.StatusUnauthorized, call("Bearer "+valid).Code)
}
