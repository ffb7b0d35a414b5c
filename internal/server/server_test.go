package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/aolserver/internal/config"
	"github.com/hongminglow/aolserver/internal/storage/sqlite"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Account string `json:"account"`
	AboutMe string `json:"about_me"`
}

type credentials struct {
	Account  string `json:"Account"`
	Password string `json:"Password"`
}

func newTestServer(t *testing.T, initDBRoute bool) *resty.Client {
	t.Helper()
	store, err := sqlite.NewUserStore(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.Config{
		Host:        "127.0.0.1",
		Port:        "0",
		BcryptCost:  bcrypt.MinCost,
		CORSOrigins: []string{"*"},
		LogLevel:    "info",
		InitDBRoute: initDBRoute,
	}
	ts := httptest.NewServer(NewHandler(cfg, store, zap.NewNop().Sugar()))
	t.Cleanup(ts.Close)

	return resty.New().SetBaseURL(ts.URL)
}

func TestAccountLifecycle(t *testing.T) {
	client := newTestServer(t, true)
	var out envelope

	resp, err := client.R().SetBody(credentials{"alice", "pw1"}).SetResult(&out).Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, envelope{Success: true, Message: "Account registered."}, out)

	out = envelope{}
	resp, err = client.R().SetBody(credentials{"alice", "pw1"}).SetResult(&out).Post("/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, envelope{Success: true, Message: "Login successful", Account: "alice"}, out)

	out = envelope{}
	resp, err = client.R().SetResult(&out).Get("/profile/alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, envelope{Success: true}, out)

	resp, err = client.R().SetBody(map[string]string{"about_me": "hello"}).Post("/profile/alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	out = envelope{}
	_, err = client.R().SetResult(&out).Get("/profile/alice")
	require.NoError(t, err)
	assert.Equal(t, "hello", out.AboutMe)

	resp, err = client.R().Get("/initdb")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	out = envelope{}
	resp, err = client.R().SetError(&out).Get("/profile/alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, envelope{Success: false, Message: "User not found"}, out)
}

func TestInitDBRouteDisabledByDefault(t *testing.T) {
	client := newTestServer(t, false)

	_, err := client.R().SetBody(credentials{"alice", "pw1"}).Post("/register")
	require.NoError(t, err)

	resp, err := client.R().Get("/initdb")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	resp, err = client.R().Get("/profile/alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestRoutingErrorsAreJSON(t *testing.T) {
	client := newTestServer(t, false)
	var out envelope

	resp, err := client.R().SetError(&out).Get("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode())
	assert.False(t, out.Success)

	resp, err = client.R().Get("/nowhere")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
}

func TestMiddlewareHeaders(t *testing.T) {
	client := newTestServer(t, false)

	resp, err := client.R().SetHeader("Origin", "https://client.example").Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))

	resp, err = client.R().SetHeader("Origin", "https://client.example").Options("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}
