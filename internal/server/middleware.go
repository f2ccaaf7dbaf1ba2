package server

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/pharmindex/pharmindex/internal/auth/domain"
	"github.com/pharmindex/pharmindex/internal/ratelimit"
	"go.uber.org/zap"
)

const contextUserIDKey = "user_id"

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, sess.UserID)
		c.Next()
	}
}

// AdminRequired rejects authenticated principals without the admin role. The
// session cookie is cleared as a side effect: a non-admin account is signed
// out, not merely blocked.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.UserByID(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if user.Role != authdomain.RoleAdmin {
			if token, ok := s.sessions.ReadToken(c); ok {
				if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
					s.log.Warn("sign out non-admin session", zap.Error(err))
				}
			}
			s.sessions.Clear(c)
			AbortWithError(c, authdomain.ErrAdminRequired)
			return
		}

		c.Next()
	}
}

// RateLimited gates a route on one of the public-surface buckets. A redis
// outage fails open: throttling is protection, not a dependency.
func (s *Server) RateLimited(allow func(ctx context.Context, clientIP string) (*ratelimit.Result, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds()+1)))
			}
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}
