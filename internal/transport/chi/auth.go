package chi

import (
	"net/http"
	"strings"

	gen "github.com/kailas-cloud/symptomd/internal/transport/generated"
)

// adminPrefix marks routes that require an admin key.
const adminPrefix = "/api/v1/admin/"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// Regular routes accept apiKeys and adminKeys; with no apiKeys they are open.
// Admin routes accept only adminKeys, falling back to apiKeys when no admin key is set.
// Empty keys are ignored.
func BearerAuthMiddleware(apiKeys, adminKeys []string) func(http.Handler) http.Handler {
	api := keySet(apiKeys)
	admin := keySet(adminKeys)

	userKeys := make(map[string]struct{}, len(api)+len(admin))
	for k := range api {
		userKeys[k] = struct{}{}
	}
	for k := range admin {
		userKeys[k] = struct{}{}
	}
	adminKeysOrAPI := admin
	if len(adminKeysOrAPI) == 0 {
		adminKeysOrAPI = api
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled: pass everything through
		if len(api) == 0 && len(admin) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			isAdmin := strings.HasPrefix(r.URL.Path, adminPrefix)
			valid := userKeys
			if isAdmin {
				valid = adminKeysOrAPI
			} else if len(api) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					gen.ErrorResponseCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := valid[token]; !ok {
				if _, known := userKeys[token]; known && isAdmin {
					writeError(w, http.StatusForbidden, gen.ErrorResponseCodeForbidden, "admin key required")
					return
				}
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
