package storefrontserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	apierrors "github.com/Apurer/dairy-storefront/internal/shared/errors"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ctxKeyRequestID  = "request_id"
	ctxKeySession    = "session"
	SessionCookieKey = "api_key"
)

// SessionResolver maps a bearer token to an explicit session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (identitydomain.Session, error)
}

// RequestID propagates or assigns X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = newRequestID()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

func newRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "rid_fallback"
	}
	return hex.EncodeToString(b)
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{
			slog.String("request_id", requestIDFrom(c)),
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		logger.LogAttrs(c.Request.Context(), level, "http_request", attrs...)
	}
}

// RequireAdmin resolves the caller's session and rejects anyone who is not an
// authenticated admin. The session is stored in the gin context.
func RequireAdmin(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := resolver.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if !session.IsAuthenticated(time.Now()) {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			return
		}
		if !session.IsAdmin() {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("admin session required"))
			return
		}
		c.Set(ctxKeySession, session)
		c.Next()
	}
}

// CurrentSession returns the session placed by RequireAdmin, or Anonymous.
func CurrentSession(c *gin.Context) identitydomain.Session {
	if v, ok := c.Get(ctxKeySession); ok {
		if session, ok := v.(identitydomain.Session); ok {
			return session
		}
	}
	return identitydomain.Anonymous
}

func bearerToken(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(SessionCookieKey); err == nil {
		return strings.TrimSpace(token)
	}
	return ""
}
