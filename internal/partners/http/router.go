package http

import "github.com/gin-gonic/gin"

// Register attaches partner routes: reads on the public group, writes on
// the admin-guarded group.
func (h *Handler) Register(public, admin *gin.RouterGroup) {
	public.GET("", h.getAll)
	public.GET("/:id", h.get)

	admin.POST("", h.create)
	admin.PATCH("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}
