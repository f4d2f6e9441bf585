package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/internal/middleware"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware middleware.Middleware) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = false
	r.NotFound = notFound
	r.MethodNotAllowed = methodNotAllowed

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api")

	// Auth routes
	api.POST("/auth/signup", handlers.Auth.Signup)
	api.POST("/auth/login", handlers.Auth.Login)

	// Protected routes
	api.GET("/profile", authMiddleware(handlers.Profile.GetProfile))
	api.PUT("/profile", authMiddleware(handlers.Profile.UpdateProfile))

	api.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}

func notFound(ctx *fasthttp.RequestCtx) {
	apiHandler.WriteJSON(ctx, http.StatusNotFound, transport.NewError("Route not found"))
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	apiHandler.WriteJSON(ctx, http.StatusMethodNotAllowed, transport.NewError("Method not allowed"))
}
