package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingin "dawn/internal/modules/billing/port/in"
	"dawn/internal/platform/httpserver"
)

type HTTPHandler struct {
	usecase billingin.Usecase
}

func NewHTTPHandler(usecase billingin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

// Register mounts the read-only entitlement route. Subscription changes come
// from the CLI, never from API callers.
func (h HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/entitlement", h.entitlement)
}

func (h HTTPHandler) entitlement(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Entitlement(c.Request.Context(), httpserver.Owner(c)))
}
