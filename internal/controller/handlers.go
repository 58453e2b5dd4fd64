package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/realtime"
	"github.com/thesisflow/advisory/internal/service"
)

type handlers struct {
	availability *service.AvailabilityService
	meetings     *service.MeetingService
	hub          *realtime.Hub
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, apperr.Validationf("invalid %s", name))
		return 0, false
	}
	return id, true
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// GET /advisor/:advisorID
func (h *handlers) getWeeklySchedule(c *gin.Context) {
	advisorID, valid := pathID(c, "advisorID")
	if !valid {
		return
	}

	days, err := h.availability.WeeklySchedule(c.Request.Context(), advisorID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, days)
}

// GET /advisor/:advisorID/slots/:date
func (h *handlers) getAvailableSlots(c *gin.Context) {
	advisorID, valid := pathID(c, "advisorID")
	if !valid {
		return
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), advisorID, c.Param("date"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, slots)
}

// POST /advisor/:advisorID/reserve
func (h *handlers) postReserve(c *gin.Context) {
	advisorID, valid := pathID(c, "advisorID")
	if !valid {
		return
	}

	var req service.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperr.Validation("invalid reservation request: "+err.Error()))
		return
	}
	req.AdvisorID = advisorID
	req.StudentID = userID(c)

	meeting, err := h.meetings.Reserve(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusCreated, meeting)
}

// GET /advisor/:advisorID/pending-meetings
func (h *handlers) getPendingMeetings(c *gin.Context) {
	advisorID, valid := pathID(c, "advisorID")
	if !valid {
		return
	}
	if advisorID != userID(c) {
		abortWithError(c, apperr.Authorization("pending meetings are visible to the owning advisor only"))
		return
	}

	meetings, err := h.meetings.PendingForAdvisor(c.Request.Context(), advisorID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, meetings)
}

// PUT /meeting/:meetingID/approve
func (h *handlers) putApprove(c *gin.Context) {
	meetingID, valid := pathID(c, "meetingID")
	if !valid {
		return
	}

	var in service.ApprovalInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, apperr.Validation("invalid approval request: "+err.Error()))
		return
	}

	meeting, err := h.meetings.Approve(c.Request.Context(), meetingID, userID(c), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, meeting)
}

// PUT /meeting/:meetingID/reject
func (h *handlers) putReject(c *gin.Context) {
	meetingID, valid := pathID(c, "meetingID")
	if !valid {
		return
	}

	var in struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, apperr.Validation("invalid rejection request: "+err.Error()))
		return
	}

	meeting, err := h.meetings.Reject(c.Request.Context(), meetingID, userID(c), in.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, meeting)
}

// GET /student/my-meetings
func (h *handlers) getMyMeetings(c *gin.Context) {
	meetings, err := h.meetings.RecentForStudent(c.Request.Context(), userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, meetings)
}

// POST /advisor/:advisorID/availability
func (h *handlers) postWindow(c *gin.Context) {
	advisorID, valid := pathID(c, "advisorID")
	if !valid {
		return
	}
	if advisorID != userID(c) {
		abortWithError(c, apperr.Authorization("only the advisor can manage their availability"))
		return
	}

	var in service.WindowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, apperr.Validation("invalid availability window: "+err.Error()))
		return
	}

	window, err := h.availability.CreateWindow(c.Request.Context(), advisorID, in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusCreated, window)
}

// PUT /availability/:windowID
func (h *handlers) putWindow(c *gin.Context) {
	windowID, valid := pathID(c, "windowID")
	if !valid {
		return
	}

	var in service.WindowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, apperr.Validation("invalid availability window: "+err.Error()))
		return
	}

	window, err := h.availability.UpdateWindow(c.Request.Context(), userID(c), windowID, in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, window)
}

// DELETE /availability/:windowID
func (h *handlers) deleteWindow(c *gin.Context) {
	windowID, valid := pathID(c, "windowID")
	if !valid {
		return
	}

	if err := h.availability.DeactivateWindow(c.Request.Context(), userID(c), windowID); err != nil {
		abortWithError(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"deactivated": windowID})
}

// GET /events: server-sent events for the caller's private channel.
func (h *handlers) getEvents(c *gin.Context) {
	channel := strconv.FormatInt(userID(c), 10)
	events, cancel := h.hub.Subscribe(channel)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(ev.Name, ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
