package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	Task     *apiHandler.TaskHandler
	Activity *apiHandler.ActivityHandler
	Health   *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, auth Middleware, rateLimit Middleware) *router.Router {
	r := router.New()

	protected := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		if rateLimit != nil {
			h = rateLimit(h)
		}
		return auth(h)
	}

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/profile", protected(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", protected(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/tasks", protected(handlers.Task.ListTasks))
	r.POST("/api/v1/tasks", protected(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", protected(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", protected(handlers.Task.UpdateTask))
	r.PATCH("/api/v1/tasks/{id}/status", protected(handlers.Task.UpdateStatus))
	r.DELETE("/api/v1/tasks/{id}", protected(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/restore", protected(handlers.Task.RestoreTask))
	r.DELETE("/api/v1/tasks/{id}/permanent", protected(handlers.Task.HardDeleteTask))

	r.GET("/api/v1/tasks/{id}/dependencies", protected(handlers.Task.GetDependencies))
	r.POST("/api/v1/tasks/{id}/dependencies", protected(handlers.Task.AddDependency))
	r.DELETE("/api/v1/tasks/{id}/dependencies/{dependencyID}", protected(handlers.Task.RemoveDependency))

	r.GET("/api/v1/tasks/{id}/activities", protected(handlers.Activity.ListByTask))
	r.GET("/api/v1/activities", protected(handlers.Activity.ListForUser))

	return r
}
