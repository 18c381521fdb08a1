package http

import "github.com/gin-gonic/gin"

// Register attaches project routes: reads on the public group, writes on
// the admin-guarded group.
func (h *Handler) Register(public, admin *gin.RouterGroup) {
	public.GET("", h.getAll)
	public.GET("/:id", h.get)

	admin.POST("", h.create)
	admin.PATCH("/:id", h.update)
	admin.PATCH("/:id/order", h.updateOrder)
	admin.PATCH("/:id/visibility/:app", h.updateVisibility)
	admin.PATCH("/:id/media/delete", h.deleteFile)
	admin.DELETE("/:id", h.delete)
}
