package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cardiodash/internal/session"
)

const sessionIDKey = "session_id"

// accessLog writes one line per request.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("[access]")
	}
}

// sessionCookie binds the request to a session id, issuing a new one when
// the cookie is absent or malformed, and refreshes the cookie expiry.
func (s *Server) sessionCookie() gin.HandlerFunc {
	name := s.cfg.Session.CookieName
	maxAge := int(s.cfg.Session.TTL / time.Second)
	secure := s.cfg.IsProduction()

	return func(c *gin.Context) {
		id, err := c.Cookie(name)
		if err != nil || !session.ValidID(id) {
			id = session.NewID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, id, maxAge, "/", "", secure, true)
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
