package handlers

import (
	"context"
	"net/http"
	"time"

	"quiz_duel/internal/logger"

	"github.com/gin-gonic/gin"
)

// Checker проверяет доступность внешней зависимости
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc адаптер функции к Checker
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

func Health(checks map[string]Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		status := http.StatusOK
		for name, check := range checks {
			if err := check.Check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				results[name] = "error"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
	}
}
