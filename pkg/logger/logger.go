package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quickbite/quickbite-api/pkg/config"
	"github.com/quickbite/quickbite-api/pkg/middleware/requestid"
)

// New builds the process logger. Production uses the JSON encoder and
// sampling defaults; everything else gets the development config.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Env == config.EnvProduction {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Log.Format == "console" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			zc.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}

// GinMiddleware logs one line per request. Server errors log at error
// level, client errors at warn, the rest at info.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if id := requestid.Value(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			l.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("http_request", fields...)
		default:
			l.Info("http_request", fields...)
		}
	}
}
