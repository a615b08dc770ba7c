package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/microblog/models"
)

// DefaultResetTokenTTL is how long a reset token stays valid unless configured otherwise.
const DefaultResetTokenTTL = 600 * time.Second

// ResetClaims is the reset token payload: {"reset_password": <user id>, "exp": <unix seconds>}.
type ResetClaims struct {
	ResetPassword uint `json:"reset_password"`
	jwt.RegisteredClaims
}

// ResetTokens issues and verifies HS256 password reset tokens signed with the configured secret.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
	users  *UserService
	now    func() time.Time
}

// NewResetTokens creates ResetTokens. ttl <= 0 selects DefaultResetTokenTTL.
func NewResetTokens(secret string, ttl time.Duration, users *UserService) *ResetTokens {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokens{secret: []byte(secret), ttl: ttl, users: users, now: time.Now}
}

// Issue returns a token for user expiring expiresIn from now; expiresIn <= 0 uses the configured ttl.
func (r *ResetTokens) Issue(user *models.User, expiresIn time.Duration) (string, error) {
	if expiresIn <= 0 {
		expiresIn = r.ttl
	}
	claims := ResetClaims{
		ResetPassword: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(r.now().Add(expiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// Verify returns the user a valid token was issued for. A bad signature, an expired or malformed token and
// a token naming a missing user all yield (nil, nil); only a database failure returns an error.
func (r *ResetTokens) Verify(ctx context.Context, token string) (*models.User, error) {
	var claims ResetClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil || claims.ResetPassword == 0 {
		return nil, nil
	}
	return r.users.LoadUser(ctx, claims.ResetPassword)
}

// ResetPassword verifies token and stores password as the new password of its user.
func (r *ResetTokens) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	user, err := r.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidResetToken
	}
	if err := r.users.ChangePassword(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}
