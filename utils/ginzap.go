package utils

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// Ginzap logs one line per request with latency, status and request id.
// timeFormat is applied to the logged request start time; utc converts it
// to UTC first.
func Ginzap(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		c.Next()

		end := time.Now()
		latency := end.Sub(start)
		if utc {
			end = end.UTC()
		}

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("time", end.Format(timeFormat)),
			zap.Duration("latency", latency),
		}
		if id := c.GetString(RequestIDKey); id != "" {
			fields = append(fields, zap.String(RequestIDKey, id))
		}

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				logger.Error(e, fields...)
			}
			return
		}
		logger.Info(path, fields...)
	}
}

// RecoveryWithZap recovers from panics, logs them and answers 500. Broken
// client connections are logged without a response.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if brokenPipe(rec) {
				logger.Error(c.Request.URL.Path, zap.Any("error", rec))
				_ = c.Error(errFromRecover(rec))
				c.Abort()
				return
			}

			dump, _ := httputil.DumpRequest(c.Request, false)
			fields := []zap.Field{
				zap.Time("time", time.Now()),
				zap.Any("error", rec),
				zap.String("request", string(dump)),
			}
			if stack {
				fields = append(fields, zap.String("stack", string(debug.Stack())))
			}
			logger.Error("[Recovery from panic]", fields...)
			Error(c, http.StatusInternalServerError, 50000, "internal server error")
			c.Abort()
		}()
		c.Next()
	}
}

func brokenPipe(rec interface{}) bool {
	ne, ok := rec.(*net.OpError)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if errors.As(ne, &se) {
		msg := strings.ToLower(se.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}

func errFromRecover(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return errors.New("panic")
}
