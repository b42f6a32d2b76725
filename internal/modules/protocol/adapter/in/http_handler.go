package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	protocoldto "dawn/internal/modules/protocol/dto"
	protocolin "dawn/internal/modules/protocol/port/in"
	"dawn/internal/platform/httpserver"
)

type HTTPHandler struct {
	usecase protocolin.Usecase
}

func NewHTTPHandler(usecase protocolin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

type previewQuery struct {
	Context     string `form:"context" binding:"omitempty,oneof=standard low_light gentle"`
	DayIndex    int    `form:"day_index" binding:"min=0"`
	Deltas      []int  `form:"delta"`
	Maintenance bool   `form:"maintenance"`
}

func (h HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/protocol/preview", h.preview)
}

func (h HTTPHandler) preview(c *gin.Context) {
	var q previewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpserver.BindError(c, err)
		return
	}
	out, err := h.usecase.Preview(c.Request.Context(), protocoldto.PreviewInput{
		Context:      q.Context,
		DayIndex:     q.DayIndex,
		RecentDeltas: q.Deltas,
		Maintenance:  q.Maintenance,
	})
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
