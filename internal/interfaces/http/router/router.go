package router

import "github.com/gin-gonic/gin"

// Routable is implemented by handlers that attach their own routes
type Routable interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects handlers and mounts them under a versioned API group
type Router struct {
	engine     *gin.Engine
	apiVersion string
	handlers   []Routable
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" path prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router for the given engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a handler for mounting. Calls chain.
func (r *Router) Register(h Routable) *Router {
	r.handlers = append(r.handlers, h)
	return r
}

// Setup mounts every registered handler under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}
}
