package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/middleware"
	"github.com/iliyamo/cafeteria-booking/internal/model"
	"github.com/iliyamo/cafeteria-booking/internal/repository"
)

// StallHandler serves the cafeteria queue map.  Reads are public; queue
// updates are made by staff behind JWTAuth and RequireRole.
type StallHandler struct {
	Stalls *repository.StallRepo
}

// NewStallHandler constructs a StallHandler and panics if stalls is nil.
func NewStallHandler(stalls *repository.StallRepo) *StallHandler {
	if stalls == nil {
		panic("nil repository passed to NewStallHandler")
	}
	return &StallHandler{Stalls: stalls}
}

// StallStatus is a stall with its derived wait estimate and congestion.
type StallStatus struct {
	model.Stall
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	Congestion           string `json:"congestion"`
}

func statusOf(s model.Stall) StallStatus {
	return StallStatus{Stall: s, EstimatedWaitMinutes: s.EstimatedWaitMinutes(), Congestion: s.Congestion()}
}

type queueReq struct {
	QueueLength *int `json:"queue_length"`
}

// List returns every stall ordered by id.
func (h *StallHandler) List(c echo.Context) error {
	stalls := h.Stalls.List(c.Request().Context())
	out := make([]StallStatus, 0, len(stalls))
	for _, s := range stalls {
		out = append(out, statusOf(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Busiest returns the stall with the longest queue.
func (h *StallHandler) Busiest(c echo.Context) error {
	s, ok := h.Stalls.Busiest(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no stalls"})
	}
	return c.JSON(http.StatusOK, statusOf(s))
}

// UpdateQueue sets the queue length of a stall.
func (h *StallHandler) UpdateQueue(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req queueReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.QueueLength == nil || *req.QueueLength < 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":    "validation failed",
			"messages": []string{"queue_length must be zero or more"},
		})
	}
	s, err := h.Stalls.SetQueueLength(c.Request().Context(), id, *req.QueueLength)
	if err != nil {
		return writeError(c, err)
	}
	c.Logger().Infof("stall %d queue set to %d by %s", s.ID, s.QueueLength, middleware.StaffFrom(c))
	return c.JSON(http.StatusOK, statusOf(s))
}
