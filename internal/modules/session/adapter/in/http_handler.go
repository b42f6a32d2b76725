package in

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sessiondto "dawn/internal/modules/session/dto"
	sessionin "dawn/internal/modules/session/port/in"
	"dawn/internal/platform/httpserver"
)

type HTTPHandler struct {
	usecase sessionin.Usecase
}

func NewHTTPHandler(usecase sessionin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

type startRequest struct {
	Context           string     `json:"context" binding:"omitempty,oneof=standard low_light gentle"`
	WakeTimeReported  *time.Time `json:"wake_time_reported"`
	AcceptMaintenance bool       `json:"accept_maintenance"`
}

// reactionEvent mirrors the client's event log: Unix milliseconds.
type reactionEvent struct {
	Timestamp       int64   `json:"timestamp"`
	StimulusShownAt int64   `json:"stimulus_shown_at" binding:"required"`
	ReactionTimeMS  float64 `json:"reaction_time_ms"`
}

type testRequest struct {
	Timing string          `json:"timing" binding:"required,oneof=pre post"`
	Events []reactionEvent `json:"events" binding:"dive"`
}

type energyRequest struct {
	Timing string `json:"timing" binding:"required,oneof=pre post"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

func (h HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/session/start", h.start)
	rg.GET("/session/active", h.active)
	rg.POST("/session/:id/test", h.recordTest)
	rg.POST("/session/:id/energy", h.recordEnergy)
	rg.POST("/session/:id/complete", h.complete)
	rg.GET("/dashboard", h.dashboard)
}

func (h HTTPHandler) start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpserver.BindError(c, err)
		return
	}
	owner := httpserver.Owner(c)
	device := c.GetHeader(httpserver.DeviceHeader)
	if device == "" {
		device = owner
	}
	out, err := h.usecase.Start(c.Request.Context(), sessiondto.StartInput{
		OwnerID:           owner,
		DeviceID:          device,
		Context:           req.Context,
		WakeTimeReported:  req.WakeTimeReported,
		AcceptMaintenance: req.AcceptMaintenance,
	})
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h HTTPHandler) active(c *gin.Context) {
	out, err := h.usecase.GetActive(c.Request.Context(), httpserver.Owner(c))
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) recordTest(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpserver.BindError(c, err)
		return
	}
	reactions := make([]sessiondto.ReactionInput, 0, len(req.Events))
	for _, e := range req.Events {
		shown := time.UnixMilli(e.StimulusShownAt).UTC()
		reactions = append(reactions, sessiondto.ReactionInput{
			StimulusShownAt: shown,
			RespondedAt:     shown.Add(time.Duration(e.ReactionTimeMS * float64(time.Millisecond))),
		})
	}
	out, err := h.usecase.RecordTest(c.Request.Context(), sessiondto.RecordTestInput{
		OwnerID:   httpserver.Owner(c),
		SessionID: c.Param("id"),
		Timing:    req.Timing,
		Reactions: reactions,
	})
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) recordEnergy(c *gin.Context) {
	var req energyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpserver.BindError(c, err)
		return
	}
	out, err := h.usecase.RecordEnergy(c.Request.Context(), sessiondto.RecordEnergyInput{
		OwnerID:   httpserver.Owner(c),
		SessionID: c.Param("id"),
		Timing:    req.Timing,
		Rating:    req.Rating,
	})
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) complete(c *gin.Context) {
	out, err := h.usecase.Complete(c.Request.Context(), sessiondto.CompleteInput{
		OwnerID:   httpserver.Owner(c),
		SessionID: c.Param("id"),
	})
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) dashboard(c *gin.Context) {
	out, err := h.usecase.Dashboard(c.Request.Context(), httpserver.Owner(c))
	if err != nil {
		httpserver.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
