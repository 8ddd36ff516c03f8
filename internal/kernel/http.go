// Package kernel assembles the HTTP handler: global middleware, /metrics
// and the API routes.
package kernel

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/routes"
	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/reqid"
	"github.com/shashiranjanraj/kasir/pkg/response"
	"github.com/shashiranjanraj/kasir/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router over db. store backs both the global and
// the sign-in rate limits.
func NewHTTPKernel(db *gorm.DB, store middleware.RateStore) *HTTPKernel {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — total latency including everything below
	//  2. Request ID        — before anything logs
	//  3. Logger            — logs request_id and the final status
	//  4. Recovery          — a panic becomes a logged 500
	//  5. CORS
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	r.Use(middleware.RateLimit(store, "api", config.RateLimitMax(), config.RateLimitWindow()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, apperr.NotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Write(w, http.StatusMethodNotAllowed, response.Envelope{
			Status:  http.StatusMethodNotAllowed,
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		})
	})

	r.Handle("/metrics", metrics.Handler())
	routes.RegisterAPI(r, db, store)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Router exposes the route table, e.g. for route:list.
func (k *HTTPKernel) Router() *router.Router { return k.router }

// NewRateStore returns the store selected by RATE_LIMIT_STORE. The returned
// close func releases the Redis client, if any.
func NewRateStore(ctx context.Context) (middleware.RateStore, func() error, error) {
	switch config.RateLimitStore() {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("kernel: redis ping %s: %w", config.RedisAddr(), err)
		}
		return middleware.NewRedisStore(client, config.AppName()+":ratelimit"), client.Close, nil
	case "memory", "":
		return middleware.NewMemoryStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("kernel: unsupported RATE_LIMIT_STORE %q (supported: memory, redis)", config.RateLimitStore())
	}
}
