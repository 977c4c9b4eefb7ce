package middleware

import (
	"log"
	"net/http"
	"net/url"

	"github.com/EstateHub/marketplace-backend/internal/utils"
)

// RouteGuard redirects anonymous requests for protected pages to sign-in.
// Paths match exactly; there are no wildcards.
type RouteGuard struct {
	protected  map[string]struct{}
	signInPath string
	auth       Authenticator
}

// NewRouteGuard compiles the protected path list once.
func NewRouteGuard(paths []string, signInPath string, auth Authenticator) *RouteGuard {
	protected := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		protected[p] = struct{}{}
	}
	return &RouteGuard{protected: protected, signInPath: signInPath, auth: auth}
}

func (g *RouteGuard) Protects(path string) bool {
	_, ok := g.protected[path]
	return ok
}

func (g *RouteGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Protects(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := g.auth.Authenticate(r)
		if err != nil {
			// Fail closed: a broken session store must not open protected pages.
			log.Printf("[guard] session lookup failed for %s: %v", r.URL.Path, err)
			userID = ""
		}
		if userID == "" {
			http.Redirect(w, r, g.signInURL(r.URL.Path), http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
	})
}

func (g *RouteGuard) signInURL(from string) string {
	q := url.Values{}
	q.Set("callbackUrl", from)
	return g.signInPath + "?" + q.Encode()
}
