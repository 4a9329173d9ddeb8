package middleware

import (
	"net/http"
	"time"

	"github.com/bluele/gcache"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "session_token"

type cachedSession struct {
	AccountID string
	Email     string
}

// SessionMiddleware authenticates requests by their session cookie. Valid
// lookups are cached so hot sessions skip the database join.
type SessionMiddleware struct {
	pool   *pgxpool.Pool
	cache  gcache.Cache
	secure bool
}

func NewSessionMiddleware(pool *pgxpool.Pool, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		pool:   pool,
		cache:  gcache.New(1000).LRU().Expiration(time.Minute * 15).Build(),
		secure: secure,
	}
}

// Invalidate drops a token from the cache, forcing the next request to
// revalidate against the database.
func (m *SessionMiddleware) Invalidate(sessionToken string) {
	m.cache.Remove(sessionToken)
}

func (m *SessionMiddleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "missing session token",
				})
			}

			sessionToken := cookie.Value

			cachedData, err := m.cache.Get(sessionToken)
			if err == nil {
				session := cachedData.(cachedSession)
				c.Set("session_token", sessionToken)
				c.Set("account_id", session.AccountID)
				c.Set("email", session.Email)
				return next(c)
			}

			ctx := c.Request().Context()

			query := `
				SELECT a.id, a.email
				FROM sessions s
				JOIN accounts a ON a.id = s.account_id
				WHERE s.session_token = $1
				AND s.expires_at > NOW()
			`

			var accountID, email string
			err = m.pool.QueryRow(ctx, query, sessionToken).Scan(&accountID, &email)
			if err != nil {
				clearCookie := &http.Cookie{
					Name:     sessionCookieName,
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					Secure:   m.secure,
					SameSite: http.SameSiteStrictMode,
					MaxAge:   -1,
				}
				c.SetCookie(clearCookie)
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "invalid or expired session",
				})
			}

			_ = m.cache.Set(sessionToken, cachedSession{
				AccountID: accountID,
				Email:     email,
			})

			c.Set("session_token", sessionToken)
			c.Set("account_id", accountID)
			c.Set("email", email)

			return next(c)
		}
	}
}
