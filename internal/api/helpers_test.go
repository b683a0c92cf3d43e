package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/geocode"
	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/service"
	"github.com/mmynk/myfishingdiary/internal/storage/sqlite"
)

// testServer is a fully wired router over a temp sqlite database with three
// users: owner@example.com, other@example.com and admin@example.com (admin).
type testServer struct {
	t      *testing.T
	router http.Handler
	store  *sqlite.SQLiteStore
	jwt    *auth.JWTManager
}

// fakeGeocoder resolves addresses from a fixed table.
type fakeGeocoder map[string]geo.Point

func (f fakeGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	p, ok := f[address]
	if !ok {
		return geo.Point{}, geocode.ErrNoResults
	}
	return p, nil
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, configure ...func(*Options)) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range []*models.User{
		models.NewUser("owner@example.com", "Owner", "x"),
		models.NewUser("other@example.com", "Other", "x"),
		models.NewUser("admin@example.com", "Admin", "x"),
	} {
		if u.Email == "admin@example.com" {
			u.Role = models.RoleAdmin
		}
		require.NoError(t, store.CreateUser(ctx, u))
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	svc := Services{
		Trips:  service.NewTripService(store, fakeGeocoder{"Bled": {Lng: 14.1146, Lat: 46.3683}}, discardLogger),
		Groups: service.NewGroupService(store, discardLogger),
		Auth:   service.NewAuthService(authenticator, jwtManager, nil, discardLogger),
		Seed:   service.NewSeedService(store, discardLogger).WithCost(bcrypt.MinCost),
	}
	opts := Options{
		JWT:           jwtManager,
		Logger:        discardLogger,
		RateLimit:     middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		SeedEndpoints: true,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	router, err := NewRouter(svc, opts)
	require.NoError(t, err)

	return &testServer{t: t, router: router, store: store, jwt: jwtManager}
}

// token returns a bearer token for an existing user.
func (s *testServer) token(email string) string {
	s.t.Helper()
	user, err := s.store.GetUserByEmail(context.Background(), email)
	require.NoError(s.t, err)
	token, err := s.jwt.Generate(user)
	require.NoError(s.t, err)
	return token
}

// do sends a request. url.Values bodies are form encoded, anything else
// non-nil is sent as JSON.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[middleware.ErrorBody](t, rec).Message
}
