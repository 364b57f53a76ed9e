package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hiring-service/internal/config"
	"hiring-service/internal/db"
	"hiring-service/internal/discord"
	"hiring-service/internal/redis"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestInfra(t *testing.T) *Infra {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	bot, err := discord.NewBotSession("test-token")
	require.NoError(t, err)

	return &Infra{
		DB:      &db.DB{DB: sqlDB},
		Discord: bot,
	}
}

func testConfig() config.Config {
	return config.Config{
		AppPort:          "8080",
		DiscordBotToken:  "test-token",
		DiscordChannelID: "123",
		DatabaseURL:      "postgres://localhost/hiring",
		DBMaxConns:       3,
		SessionSalt:      "salt",
		SessionTTL:       time.Hour,
	}
}

func TestRouterWithoutOAuth(t *testing.T) {
	router, err := setupHTTP(testConfig(), newTestInfra(t))
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, `"status":"ok"`},
		{"auth disabled", http.MethodGet, "/api/discord-auth?code=x&state=y", http.StatusNotImplemented, `"not implemented"`},
		{"login not registered", http.MethodGet, "/api/discord-login", http.StatusNotFound, ""},
		{"post wrong method", http.MethodGet, "/api/post", http.StatusBadRequest, `"must be POST"`},
		{"dates missing session", http.MethodGet, "/api/posts/dates", http.StatusBadRequest, `"field":"session"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, tt.status, rec.Code)
			require.Contains(t, rec.Body.String(), tt.body)
			require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	router, err := setupHTTP(testConfig(), newTestInfra(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.True(t, strings.Contains(body, `hiring_http_requests_total{method="GET",route="/health",status="200"} 1`), body)
	require.Contains(t, body, "go_goroutines")
}

func TestRouterWithOAuthRegistersLogin(t *testing.T) {
	cfg := testConfig()
	cfg.DiscordClientID = "client"
	cfg.DiscordClientSecret = "secret"
	cfg.DiscordRedirectURL = "https://example.com/api/discord-auth"

	mr := miniredis.RunT(t)
	redisClient, err := redis.New(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	infra := newTestInfra(t)
	infra.Redis = redisClient

	router, err := setupHTTP(cfg, infra)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discord-login", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), discord.Endpoint.AuthURL))
	require.Len(t, mr.Keys(), 1)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discord-auth?code=x&state=unknown", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"field":"state"`)
}
