package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thesisflow/advisory/internal/realtime"
	"github.com/thesisflow/advisory/internal/service"
)

// NewRouter wires the HTTP surface. Reads of an advisor's schedule and slots
// are public; everything acting on behalf of a user requires an identity.
func NewRouter(
	availability *service.AvailabilityService,
	meetings *service.MeetingService,
	hub *realtime.Hub,
	logger *zap.Logger,
) *gin.Engine {
	h := &handlers{
		availability: availability,
		meetings:     meetings,
		hub:          hub,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandler(logger))

	r.GET("/healthz", healthz)
	r.GET("/advisor/:advisorID", h.getWeeklySchedule)
	r.GET("/advisor/:advisorID/slots/:date", h.getAvailableSlots)

	auth := r.Group("/", RequireUser())
	{
		auth.POST("/advisor/:advisorID/reserve", h.postReserve)
		auth.GET("/advisor/:advisorID/pending-meetings", h.getPendingMeetings)
		auth.POST("/advisor/:advisorID/availability", h.postWindow)
		auth.PUT("/availability/:windowID", h.putWindow)
		auth.DELETE("/availability/:windowID", h.deleteWindow)
		auth.PUT("/meeting/:meetingID/approve", h.putApprove)
		auth.PUT("/meeting/:meetingID/reject", h.putReject)
		auth.GET("/student/my-meetings", h.getMyMeetings)
		auth.GET("/events", h.getEvents)
	}

	return r
}
