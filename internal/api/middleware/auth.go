package middleware

import (
	"net/http"
	"strings"

	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/Marga-Ghale/ora-admin-console/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ContextSessionID = "sessionID"

// SessionContext makes sure the browser carries a session id cookie and exposes
// the sid, the request and the caller's bearer token to the layers below.
func SessionContext(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sid, 0, "/", "", secure, true)
		}

		ctx := session.WithSessionID(c.Request.Context(), sid)
		ctx = session.WithRequest(ctx, c.Request)
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			ctx = upstream.WithBearer(ctx, token)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Set(ContextSessionID, sid)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
