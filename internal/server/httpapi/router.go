package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(h.logger), recovery(h.logger), corsMiddleware(origins))

	r.NoRoute(func(c *gin.Context) {
		respond(c, 404, "route not found", nil)
	})

	r.GET("/", h.home)
	r.GET("/health", h.health)

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("/register", h.register)
	users.GET("/verify/:id", h.verify)
	users.POST("/login", h.login)
	users.POST("/logout", h.logout)
	users.PATCH("/changepassword", h.sessionGuard(), h.changePassword)
	users.POST("/forgotpassword", h.forgotPassword)
	users.PUT("/resetpassword", h.resetPassword)

	tasks := api.Group("/tasks", h.sessionGuard())
	tasks.PUT("/createtask", h.createTask)
	tasks.GET("/getalltasks", h.listTasks)
	tasks.GET("/getsingletask", h.getTask)
	tasks.PATCH("/updatesingletask", h.updateTask)
	tasks.DELETE("/deletesingletask", h.deleteTask)
	tasks.DELETE("/deletealltasks", h.deleteAllTasks)

	return r
}

func (h *Handler) home(c *gin.Context) {
	respondOK(c, "taskkeeper API", nil)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error(ctx, "health check failed", "error", err)
		respond(c, CodeInternal, "database unavailable", nil)
		return
	}
	respondOK(c, "ok", nil)
}
