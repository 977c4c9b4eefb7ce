package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/auth"
	"github.com/EstateHub/marketplace-backend/internal/db"
	"github.com/EstateHub/marketplace-backend/internal/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dbConn is nil when no database is configured.
var dbConn *gorm.DB

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up from internal/auth/).
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available, the integration tests skip themselves.
		os.Exit(m.Run())
	}

	conn, err := db.Connect(databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration db:", err)
		os.Exit(1)
	}
	if err := auth.Init(conn); err != nil {
		fmt.Fprintln(os.Stderr, "auth init:", err)
		os.Exit(1)
	}
	dbConn = conn

	// httptest serves plain HTTP, so the cookie cannot be Secure here.
	h := auth.NewHandler(session.NewGormStore(conn), auth.NewGormUsers(conn), auth.CookieCodec{Secure: false}, time.Hour, nil)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Mount("/api/auth", auth.SetupRoutes(h))

	testServer = httptest.NewServer(r)
	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

// createTestUser inserts a unique user and registers cleanup. Returns the email
// and plaintext password.
func createTestUser(t *testing.T) (email, password string) {
	t.Helper()
	if testing.Short() || dbConn == nil {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	email = fmt.Sprintf("itest_%s@example.com", uuid.New().String()[:8])
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	user := auth.User{
		ID:             uuid.New().String(),
		Name:           "Integration",
		Email:          email,
		HashedPassword: string(hashed),
	}
	if err := dbConn.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	t.Cleanup(func() {
		dbConn.Where("user_id = ?", user.ID).Delete(&session.Session{})
		dbConn.Where("id = ?", user.ID).Delete(&auth.User{})
	})

	return email, password
}

func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func loginUser(t *testing.T, client *http.Client, email, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := client.Post(testServer.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/auth/login: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestIntegration_LoginMeLogout runs the whole cookie flow against postgres.
func TestIntegration_LoginMeLogout(t *testing.T) {
	email, password := createTestUser(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, email, password)
	if body := readBody(t, loginResp); loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, body)
	}

	meResp, err := client.Get(testServer.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET /api/auth/me: %v", err)
	}
	if body := readBody(t, meResp); meResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d; body: %s", meResp.StatusCode, body)
	}

	logoutResp, err := client.Post(testServer.URL+"/api/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/auth/logout: %v", err)
	}
	if body := readBody(t, logoutResp); logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d; body: %s", logoutResp.StatusCode, body)
	}

	meResp, err = client.Get(testServer.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET /api/auth/me after logout: %v", err)
	}
	if body := readBody(t, meResp); meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d; body: %s", meResp.StatusCode, body)
	}
}

// TestIntegration_ExpiredSessionRejected expires the row in the database and
// checks /me treats it as absent.
func TestIntegration_ExpiredSessionRejected(t *testing.T) {
	email, password := createTestUser(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, email, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	var login struct {
		Data struct {
			User auth.PublicUser `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(loginBody), &login); err != nil {
		t.Fatalf("invalid login response JSON: %s", loginBody)
	}

	if err := dbConn.Model(&session.Session{}).
		Where("user_id = ?", login.Data.User.ID).
		Update("expires_at", time.Now().Add(-1*time.Hour)).Error; err != nil {
		t.Fatalf("failed to expire session: %v", err)
	}

	meResp, err := client.Get(testServer.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET /api/auth/me after expiry: %v", err)
	}
	if body := readBody(t, meResp); meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with expired session, got %d; body: %s", meResp.StatusCode, body)
	}
}
