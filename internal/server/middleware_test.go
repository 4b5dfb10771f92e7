package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"ruya/internal/auth"
	"ruya/internal/cache"
	"ruya/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServer_AuthRequired(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "sleeper")
	secret := env.srv.config.JWTSecret

	generateToken := func(sub interface{}, issuer, audience string, exp time.Duration) string {
		claims := jwt.MapClaims{
			"sub": sub,
			"iss": issuer,
			"aud": audience,
			"exp": time.Now().Add(exp).Unix(),
			"jti": "test-jti",
		}
		str, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		return str
	}
	sub := strconv.FormatUint(uint64(user.ID), 10)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Valid Token", "Bearer " + generateToken(sub, "ruya-api", "ruya-client", time.Hour), http.StatusOK},
		{"Expired Token", "Bearer " + generateToken(sub, "ruya-api", "ruya-client", -time.Hour), http.StatusUnauthorized},
		{"Invalid Issuer", "Bearer " + generateToken(sub, "wrong-issuer", "ruya-client", time.Hour), http.StatusUnauthorized},
		{"Invalid Audience", "Bearer " + generateToken(sub, "ruya-api", "wrong-audience", time.Hour), http.StatusUnauthorized},
		{"Numeric Subject", "Bearer " + generateToken(123, "ruya-api", "ruya-client", time.Hour), http.StatusUnauthorized},
		{"Missing Header", "", http.StatusUnauthorized},
		{"Malformed Bearer Format", "BearerTokenOnly", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := env.app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestServer_RevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewDB(t)
	srv, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)
	app := srv.NewApp()
	user := testutil.CreateUser(t, db, "sleeper")

	env := &testEnv{t: t, db: db, srv: srv, app: app}
	token := env.token(user)

	status, _ := env.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, status)

	id, err := auth.Parse(srv.config, token)
	require.NoError(t, err)
	require.NoError(t, cache.NewRevocationStore(rdb).Revoke(context.Background(), id.JTI, time.Hour))

	status, raw := env.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(raw), "revoked")

	status, raw = env.do(http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"redis":"healthy"`)
}

type mockRevocations struct {
	mock.Mock
}

func (m *mockRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func TestServer_RevocationLookupFailureAllowsRequest(t *testing.T) {
	env := newTestEnv(t)
	revocations := new(mockRevocations)
	revocations.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).
		Return(false, errors.New("redis timeout"))
	env.srv.revocations = revocations
	env.app = env.srv.NewApp()

	user := testutil.CreateUser(t, env.db, "sleeper")
	status, _ := env.do(http.MethodGet, "/api/notifications/unread-count", env.token(user), nil)
	assert.Equal(t, http.StatusOK, status)
	revocations.AssertExpectations(t)
}
