package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/aolserver/internal/auth"
	"github.com/hongminglow/aolserver/internal/models"
	"github.com/hongminglow/aolserver/internal/storage"
	"github.com/hongminglow/aolserver/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewUserStore(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRouter(store storage.UserStore) chi.Router {
	log := zap.NewNop().Sugar()
	r := chi.NewRouter()
	NewHealthHandler(time.Now(), store).Register(r)
	NewAccountHandler(store, auth.NewPasswordHasher(bcrypt.MinCost), log).Register(r)
	NewProfileHandler(store, log).Register(r)
	NewInitDBHandler(store, log).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// stubStore counts calls and fails every operation with err.
type stubStore struct {
	err   error
	calls atomic.Int32
}

var errStorageDown = errors.New("storage unavailable")

func (s *stubStore) Init(context.Context, bool) error {
	s.calls.Add(1)
	return s.err
}

func (s *stubStore) CreateUser(context.Context, string, string) (int64, error) {
	s.calls.Add(1)
	return 0, s.err
}

func (s *stubStore) FindByAccount(context.Context, string) (models.User, error) {
	s.calls.Add(1)
	return models.User{}, s.err
}

func (s *stubStore) UpdateAboutMe(context.Context, string, string) (int64, error) {
	s.calls.Add(1)
	return 0, s.err
}

func (s *stubStore) Ping(context.Context) error { return s.err }

func (s *stubStore) Close() error { return nil }
