package queue

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opdq/opdq/internal/domain/patient"
	"github.com/opdq/opdq/internal/platform/auth"
)

type Handler struct {
	proj *Projection
}

func NewHandler(proj *Projection) *Handler {
	return &Handler{proj: proj}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// The position endpoint backs the public, QR-keyed status page.
	api.GET("/patients/:id/position", h.GetPosition)

	staff := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	staff.GET("/queue", h.GetQueue)
}

type queueResponse struct {
	Patients []*patient.Patient `json:"patients"`
	Total    int                `json:"total"`
}

func (h *Handler) GetQueue(c echo.Context) error {
	ordered := h.proj.Snapshot()
	return c.JSON(http.StatusOK, queueResponse{Patients: ordered, Total: len(ordered)})
}

type positionResponse struct {
	Active   bool `json:"active"`
	Position int  `json:"position,omitempty"`
}

func (h *Handler) GetPosition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	found := false
	for _, p := range h.proj.Snapshot() {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "patient not in today's queue")
	}

	pos, ok := h.proj.Position(id)
	if !ok {
		// Present but completed: no longer holds an active slot.
		return c.JSON(http.StatusOK, positionResponse{Active: false})
	}
	return c.JSON(http.StatusOK, positionResponse{Active: true, Position: pos})
}
