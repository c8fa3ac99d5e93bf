// Package auth resolves the calling identity from request headers.
//
// The headers are trusted as-is: there is no signature or token verification
// here. That is a known gap and a placeholder for a real credential check
// (JWT, session) in front of the service.
package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/domain"
)

// Header names carrying the caller identity.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// Resolve extracts the caller identity from h.
//
// Only presence of the user id marker is checked. A marker that is not a
// base-10 integer still resolves, with UserID 0; no post is owned by 0 and
// comment creation rejects it, so such callers can read but never mutate.
// The email falls back to "user-<id>@example.com".
func Resolve(h http.Header) (domain.Identity, error) {
	raw := strings.TrimSpace(h.Get(HeaderUserID))
	if raw == "" {
		return domain.Identity{}, apperr.Unauthorized("")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		id = 0
	}

	email := strings.TrimSpace(h.Get(HeaderUserEmail))
	if email == "" {
		email = fmt.Sprintf("user-%s@example.com", raw)
	}
	return domain.Identity{UserID: id, Email: email}, nil
}
