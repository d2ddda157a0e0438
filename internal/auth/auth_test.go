package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/service"
	"github.com/yatube/yatube/pkg/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := db.New(&config.DatabaseConfig{URL: ":memory:"}, "ERROR")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(context.Background()))

	return NewService(db.NewRepository(database.DB), config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "yatube-test",
	})
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Username: "leo", Password: "correct horse", FirstName: "Lev", LastName: "Tolstoy"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.Equal(t, "Lev Tolstoy", user.FullName())

	_, err = svc.Signup(ctx, SignupInput{Username: "leo", Password: "another pass"})
	assert.ErrorIs(t, err, service.ErrConflict)

	token, logged, err := svc.Login(ctx, "leo", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "leo", claims.Username)
	assert.Equal(t, "yatube-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, _, err = svc.Login(ctx, "leo", "wrong")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		input SignupInput
		field string
	}{
		{"missing username", SignupInput{Password: "long enough"}, "username"},
		{"bad username", SignupInput{Username: "has space", Password: "long enough"}, "username"},
		{"short password", SignupInput{Username: "okay", Password: "short"}, "password"},
		{"bad email", SignupInput{Username: "okay", Password: "long enough", Email: "nope"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.input)
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestParseToken_Rejects(t *testing.T) {
	svc := newTestService(t)

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() Claims {
		return Claims{
			Username: "leo",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    "yatube-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	foreign := valid()
	foreign.Issuer = "someone-else"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(valid(), jwt.SigningMethodHS256, []byte("other"))},
		{"wrong method", sign(valid(), jwt.SigningMethodHS512, []byte("test-secret"))},
		{"expired", sign(expired, jwt.SigningMethodHS256, []byte("test-secret"))},
		{"wrong issuer", sign(foreign, jwt.SigningMethodHS256, []byte("test-secret"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "leo", Password: "correct horse"})
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "leo", "correct horse")
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(svc.Authenticate())
	engine.GET("/whoami", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.String(http.StatusOK, user.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "anonymous"},
		{"valid token", "Bearer " + token, "leo"},
		{"bad token", "Bearer nonsense", "anonymous"},
		{"wrong scheme", "Basic " + token, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
