package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/notify"
)

func notificationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.bus.GetAll(), "unread": h.bus.UnreadCount()})
}

func (h *Handler) markRead(c *gin.Context) {
	id, ok := notificationID(c)
	if !ok {
		return
	}
	if !h.bus.MarkAsRead(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": h.bus.UnreadCount()})
}

func (h *Handler) markAllRead(c *gin.Context) {
	h.bus.MarkAllAsRead()
	c.JSON(http.StatusOK, gin.H{"unread": 0})
}

func (h *Handler) dismissNotification(c *gin.Context) {
	id, ok := notificationID(c)
	if !ok {
		return
	}
	h.bus.Dismiss(id)
	c.Status(http.StatusNoContent)
}

// streamNotifications sends the current list, then a fresh snapshot after
// every change, as server-sent events named "notifications". When the client
// falls behind, the oldest queued snapshots are dropped.
func (h *Handler) streamNotifications(c *gin.Context) {
	updates := make(chan []notify.Notification, 8)
	unsubscribe := h.bus.Subscribe(func(snap []notify.Notification) {
		offerLatest(updates, snap)
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("notifications", h.bus.GetAll())
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-updates:
			c.SSEvent("notifications", snap)
			c.Writer.Flush()
		}
	}
}

// offerLatest queues snap without blocking, evicting the oldest queued
// snapshot while ch is full.
func offerLatest(ch chan []notify.Notification, snap []notify.Notification) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
