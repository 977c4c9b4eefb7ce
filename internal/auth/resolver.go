package auth

import (
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/session"
)

// Resolver turns a request's session cookie into the signed-in user.
// "Not signed in" is a nil result, never an error.
type Resolver struct {
	sessions session.Store
	users    UserStore
	cookies  CookieCodec
}

func NewResolver(sessions session.Store, users UserStore, cookies CookieCodec) *Resolver {
	return &Resolver{sessions: sessions, users: users, cookies: cookies}
}

func (res *Resolver) CurrentSession(r *http.Request) (*session.Session, error) {
	token, ok := res.cookies.Read(r)
	if !ok {
		return nil, nil
	}
	return res.sessions.FindByToken(r.Context(), token)
}

func (res *Resolver) CurrentUser(r *http.Request) (*User, error) {
	sess, err := res.CurrentSession(r)
	if err != nil || sess == nil {
		return nil, err
	}
	// A session that outlived its user resolves to nobody.
	return res.users.FindByID(r.Context(), sess.UserID)
}

// Authenticate adapts the resolver to the middleware package.
func (res *Resolver) Authenticate(r *http.Request) (string, error) {
	user, err := res.CurrentUser(r)
	if err != nil || user == nil {
		return "", err
	}
	return user.ID, nil
}
