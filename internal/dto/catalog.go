package dto

import "encoding/json"

// ── 基础目录 DTO（教室 / 时间段 / 专业 / 课程 / 教师 / 授课安排 / 成就） ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	Name         string `json:"name"          binding:"required,max=50"`
	Building     string `json:"building"      binding:"max=100"`
	Capacity     int    `json:"capacity"      binding:"required,gt=0"`
	HasProjector bool   `json:"has_projector"`
	HasComputers bool   `json:"has_computers"`
}

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	Name      string `json:"name"       binding:"max=50"`
	StartTime string `json:"start_time" binding:"required,hhmm"` // "08:30"
	EndTime   string `json:"end_time"   binding:"required,hhmm"`
}

// CreateFieldOfStudyRequest 创建专业方向请求
type CreateFieldOfStudyRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=200"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code    string  `json:"code"     binding:"required,max=64"`
	Name    string  `json:"name"     binding:"required,max=200"`
	Credits int     `json:"credits"  binding:"gte=0"`
	FieldID *string `json:"field_id" binding:"omitempty,uuid"`
}

// CreateProfessorRequest 创建教师请求
type CreateProfessorRequest struct {
	FirstName string  `json:"first_name" binding:"required,max=100"`
	LastName  string  `json:"last_name"  binding:"required,max=100"`
	Email     *string `json:"email"      binding:"omitempty,email"`
}

// CreateCourseAssignmentRequest 创建授课安排请求
type CreateCourseAssignmentRequest struct {
	CourseID    string `json:"course_id"    binding:"required,uuid"`
	ProfessorID string `json:"professor_id" binding:"required,uuid"`
	SemesterID  string `json:"semester_id"  binding:"required,uuid"`
	Role        string `json:"role"         binding:"omitempty,oneof=lecturer tutor lab"`
	MaxStudents int    `json:"max_students" binding:"omitempty,gt=0"`
}

// CreateAchievementRequest 创建成就请求
type CreateAchievementRequest struct {
	Name         string          `json:"name"         binding:"required,max=100"`
	Description  string          `json:"description"`
	Points       int             `json:"points"       binding:"gte=0"`
	Requirements json.RawMessage `json:"requirements"`
}
