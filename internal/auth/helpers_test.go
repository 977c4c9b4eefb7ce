package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"github.com/EstateHub/marketplace-backend/internal/auth"
	"github.com/EstateHub/marketplace-backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// fakeUsers implements auth.UserStore in memory.
type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*auth.User
	err  error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]*auth.User)}
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(ctx context.Context, u *auth.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return auth.ErrEmailTaken
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id, hashed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.HashedPassword = hashed
	}
	return nil
}

// addUser stores a user with a bcrypt hash of password.
func (f *fakeUsers) addUser(t *testing.T, id, email, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u := &auth.User{
		ID:             id,
		Name:           "Test " + id,
		Email:          email,
		HashedPassword: string(hashed),
		Role:           "user",
		AccountType:    auth.AccountBusiness,
	}
	f.mu.Lock()
	f.byID[id] = u
	f.mu.Unlock()
	return u
}

// brokenStore fails every call like an unreachable database.
type brokenStore struct{}

var errDown = apperr.Storage("session store", errors.New("connection refused"))

func (brokenStore) Create(context.Context, string, time.Duration) (*session.Session, error) {
	return nil, errDown
}
func (brokenStore) FindByToken(context.Context, string) (*session.Session, error) {
	return nil, errDown
}
func (brokenStore) DeleteByToken(context.Context, string) error { return errDown }
func (brokenStore) DeleteByUser(context.Context, string) error { return errDown }
func (brokenStore) DeleteExpired(context.Context) (int64, error) { return 0, errDown }

type fixture struct {
	sessions *session.MemoryStore
	users    *fakeUsers
	handler  *auth.Handler
	server   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sessions := session.NewMemoryStore()
	users := newFakeUsers()
	h := auth.NewHandler(sessions, users, auth.CookieCodec{Secure: true}, time.Hour, auth.NewLoginLimiter(100))
	return &fixture{sessions: sessions, users: users, handler: h, server: auth.SetupRoutes(h)}
}

// do sends a request through the auth router, optionally with a session cookie.
func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session_token cookie set on the response, if any.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}
