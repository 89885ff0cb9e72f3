package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oakmere/tanksense/internal/auth"
	"github.com/oakmere/tanksense/internal/infrastructure/config"
	"github.com/oakmere/tanksense/internal/infrastructure/logging"
	"github.com/oakmere/tanksense/internal/sensor"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

// testServer creates a Server backed by in-memory SQLite repositories.
func testServer(t *testing.T) *Server {
	t.Helper()

	db := setupTestDB(t)
	users := auth.NewUserRepository(db)
	sensors := sensor.NewSQLiteRepository(db)

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{
				Secret:         testSecret,
				AccessTokenTTL: 30,
			},
		},
		Logger:  log,
		Users:   users,
		Sensors: sensors,
		Guard:   auth.NewGuard(users, testSecret),
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return srv
}

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// In-memory databases exist per connection.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE INDEX idx_users_username ON users(username);
		CREATE INDEX idx_users_email ON users(email);

		CREATE TABLE sensors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			send_data_time TEXT NOT NULL,
			send_info_time TEXT NOT NULL,
			battery INTEGER NOT NULL,
			date TEXT NOT NULL,
			defective INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE INDEX idx_sensors_external_id ON sensors(external_id);

		CREATE TABLE sensor_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sensor_id INTEGER NOT NULL,
			level REAL NOT NULL,
			volume REAL NOT NULL,
			date TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			temperature INTEGER,
			FOREIGN KEY (sensor_id) REFERENCES sensors(id) ON DELETE CASCADE
		) STRICT;
		CREATE INDEX idx_sensor_data_sensor_id ON sensor_data(sensor_id);
	`

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// registerUser posts a registration request and fails the test on non-201.
func registerUser(t *testing.T, router http.Handler, username, email, password string) {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}
}

// loginUser logs in and returns the bearer token.
func loginUser(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access_token to be non-empty")
	}
	return resp.AccessToken
}

// authToken registers a default test user and returns a valid bearer token.
func authToken(t *testing.T, router http.Handler) string {
	t.Helper()

	registerUser(t, router, "tester", "tester@example.com", "secret-pw")
	return loginUser(t, router, "tester", "secret-pw")
}

// authedRequest builds a request carrying the given bearer token.
func authedRequest(method, target, body, token string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
