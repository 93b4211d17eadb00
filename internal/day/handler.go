package day

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SnapshotSource publishes the latest fetched snapshot.
type SnapshotSource interface {
	Current() (Snapshot, bool)
	Healthy() bool
}

// OrderService executes the cancel-order action.
type OrderService interface {
	Cancel(ctx context.Context, orderID int) bool
}

type Handler struct {
	source SnapshotSource
	orders OrderService
	now    func() time.Time
}

func NewHandler(source SnapshotSource, orders OrderService) *Handler {
	return &Handler{
		source: source,
		orders: orders,
		now:    time.Now,
	}
}

// --------------------------------------------------
// All 7 day views
// --------------------------------------------------
func (h *Handler) ListDays(c *gin.Context) {
	snap, ok := h.source.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data fetched yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fetched_at": snap.FetchedAt,
		"days":       ProjectAll(snap, h.now()),
	})
}

// --------------------------------------------------
// One day view
// --------------------------------------------------
func (h *Handler) GetDay(c *gin.Context) {
	offset, ok := h.dayOffset(c)
	if !ok {
		return
	}

	snap, ok := h.source.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data fetched yet"})
		return
	}

	c.JSON(http.StatusOK, Project(snap, h.now(), offset))
}

// --------------------------------------------------
// Order read model only
// --------------------------------------------------
func (h *Handler) GetDayOrder(c *gin.Context) {
	offset, ok := h.dayOffset(c)
	if !ok {
		return
	}

	snap, ok := h.source.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data fetched yet"})
		return
	}

	view := Project(snap, h.now(), offset)
	c.JSON(http.StatusOK, gin.H{
		"date":      view.Date,
		"day_name":  view.DayName,
		"has_order": view.HasOrder,
		"summary":   view.Summary,
		"order":     view.Order,
	})
}

// --------------------------------------------------
// Menu read model only
// --------------------------------------------------
func (h *Handler) GetDayMenu(c *gin.Context) {
	offset, ok := h.dayOffset(c)
	if !ok {
		return
	}

	snap, ok := h.source.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data fetched yet"})
		return
	}

	view := Project(snap, h.now(), offset)
	c.JSON(http.StatusOK, gin.H{
		"date":       view.Date,
		"day_name":   view.DayName,
		"meal_count": view.MealCount,
		"meals":      view.Menu,
		"meal_names": view.MealNames,
	})
}

// --------------------------------------------------
// Cancel order action
// --------------------------------------------------
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order id must be an integer"})
		return
	}

	if !h.orders.Cancel(c.Request.Context(), orderID) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "cancellation failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"order_id": orderID,
		"message":  "Order cancelled. Day views refreshed.",
	})
}

func (h *Handler) dayOffset(c *gin.Context) (int, bool) {
	offset, err := strconv.Atoi(c.Param("offset"))
	if err != nil || offset < 0 || offset >= Window {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be 0..6"})
		return 0, false
	}
	return offset, true
}
