package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/platform/memory"
	"github.com/phrazzld/flashdeck/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(store string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 5,
		},
		Database: config.DatabaseConfig{URL: "postgres://flashdeck:pw@localhost:5432/flashdeck"},
		Session: config.SessionConfig{
			Secret:               strings.Repeat("s", 32),
			CookieName:           "flashdeck_session",
			LifetimeMinutes:      60,
			Store:                store,
			SweepIntervalMinutes: 15,
		},
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("no flags serves", func(t *testing.T) {
		opts, err := parseFlags(nil)
		require.NoError(t, err)
		assert.Empty(t, opts.migrate)
	})

	t.Run("migration command", func(t *testing.T) {
		opts, err := parseFlags([]string{"-migrate", "status"})
		require.NoError(t, err)
		assert.Equal(t, "status", opts.migrate)
	})

	t.Run("unknown migration command", func(t *testing.T) {
		_, err := parseFlags([]string{"-migrate", "create"})
		assert.ErrorContains(t, err, "unknown migration command")
	})
}

func TestMaskDatabaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "password masked",
			in:   "postgres://flashdeck:hunter2@db:5432/flashdeck",
			want: "postgres://flashdeck:xxxxx@db:5432/flashdeck",
		},
		{
			name: "no credentials",
			in:   "postgres://db:5432/flashdeck",
			want: "postgres://db:5432/flashdeck",
		},
		{
			name: "user without password",
			in:   "postgres://flashdeck@db/flashdeck",
			want: "postgres://flashdeck@db/flashdeck",
		},
		{
			name: "unparseable",
			in:   "postgres://%zz",
			want: "invalid-url",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, maskDatabaseURL(tc.in))
		})
	}
}

func TestSlogGooseLogger(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	gl := &slogGooseLogger{logger: l}

	gl.Printf("OK   %s", "20250101000001_create_decks.sql")
	gl.Fatalf("failed to apply %d migrations", 2)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "OK   20250101000001_create_decks.sql", entries[0]["msg"])
	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, "failed to apply 2 migrations", entries[1]["msg"])
}

func TestNewStudyStateStore(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	states, err := newStudyStateStore(testConfig(config.SessionStoreMemory).Session, db, l)
	require.NoError(t, err)
	assert.IsType(t, &memory.StudyStateStore{}, states)

	states, err = newStudyStateStore(testConfig(config.SessionStorePostgres).Session, db, l)
	require.NoError(t, err)
	assert.IsType(t, &postgres.PostgresStudyStateStore{}, states)

	_, err = newStudyStateStore(testConfig("redis").Session, db, l)
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	l, _ := logger.GetTestLogger(t)
	app, err := newApplication(testConfig(config.SessionStoreMemory), l, db)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	router := app.setupRouter()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("pages start a session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/new", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "flashdeck_session", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})
}
