package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/application/dto"
	"github.com/vsinha/doorshop/pkg/application/services"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
)

// Handler serves the doorshop API
type Handler struct {
	entries  *services.EntryService
	cutLists *services.CutListService
	health   Pinger
	logger   *zap.Logger
}

// GetDoorCutList returns the rail cut list of a door
func (h *Handler) GetDoorCutList(c *gin.Context) {
	doorID, ok := h.pathID(c)
	if !ok {
		return
	}

	cutList, err := h.cutLists.DoorCutList(c.Request.Context(), doorID)
	if err != nil {
		h.respondError(c, err, "Door not found")
		return
	}
	c.JSON(http.StatusOK, dto.CutListResponse{CutList: dto.NewCutListView(cutList)})
}

// UpdateEntry replaces an entry's handing and opening data
func (h *Handler) UpdateEntry(c *gin.Context) {
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &dto.ValidationError{Message: "invalid request body: " + err.Error()}, "")
		return
	}
	cmd, err := req.Validate()
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	entry, err := h.entries.UpdateEntry(c.Request.Context(), entryID, cmd.Handing, cmd.Data)
	if err != nil {
		h.respondError(c, err, "Entry not found")
		return
	}
	c.JSON(http.StatusOK, dto.EntryResponse{Entry: entry})
}

// CreateEntry adds an entry with its door leaves to a work order
func (h *Handler) CreateEntry(c *gin.Context) {
	workOrderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &dto.ValidationError{Message: "invalid request body: " + err.Error()}, "")
		return
	}
	cmd, err := req.Validate()
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	entry, err := h.entries.CreateEntry(c.Request.Context(), workOrderID, cmd.Handing, cmd.EntryData, cmd.DoorData)
	if err != nil {
		h.respondError(c, err, "Work order not found")
		return
	}
	c.JSON(http.StatusOK, dto.EntryResponse{Entry: entry})
}

// ListDoors returns an entry's door leaves
func (h *Handler) ListDoors(c *gin.Context) {
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	doors, err := h.entries.ListDoors(c.Request.Context(), entryID)
	if err != nil {
		h.respondError(c, err, "Entry not found")
		return
	}
	c.JSON(http.StatusOK, dto.DoorsResponse{Doors: doors})
}

// DeleteEntry removes an entry and its doors
func (h *Handler) DeleteEntry(c *gin.Context) {
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.entries.DeleteEntry(c.Request.Context(), entryID); err != nil {
		h.respondError(c, err, "Entry not found")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Entry deleted"})
}

// DeleteDoor removes a single door
func (h *Handler) DeleteDoor(c *gin.Context) {
	doorID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.entries.DeleteDoor(c.Request.Context(), doorID); err != nil {
		h.respondError(c, err, "Door not found")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Door deleted"})
}

// Healthz reports whether the store is reachable
func (h *Handler) Healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, &dto.ValidationError{Field: "id", Message: "must be a positive integer"}, "")
		return 0, false
	}
	return id, true
}

// respondError maps service errors to status codes. notFound replaces the
// message of ErrNotFound responses when set.
func (h *Handler) respondError(c *gin.Context, err error, notFound string) {
	_ = c.Error(err)

	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		msg := notFound
		if msg == "" {
			msg = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: msg})
	default:
		h.logger.Error("Request failed",
			zap.String("route", routeOf(c)),
			zap.String(requestIDKey, c.GetString(requestIDKey)),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
