package dto

// ── 课次 DTO ──

// ScheduleSessionRequest 排课请求（classroom_id 为空表示无固定教室，不参与冲突检查）
type ScheduleSessionRequest struct {
	AssignmentID string  `json:"assignment_id" binding:"required,uuid"`
	ClassroomID  *string `json:"classroom_id"  binding:"omitempty,uuid"`
	SessionDate  string  `json:"session_date"  binding:"required,datetime=2006-01-02"`
	TimeSlotID   string  `json:"time_slot_id"  binding:"required,uuid"`
	Notes        string  `json:"notes"`
}

// RescheduleSessionRequest 调课请求
type RescheduleSessionRequest struct {
	ClassroomID *string `json:"classroom_id" binding:"omitempty,uuid"`
	SessionDate string  `json:"session_date" binding:"required,datetime=2006-01-02"`
	TimeSlotID  string  `json:"time_slot_id" binding:"required,uuid"`
}

// ListSessionsQuery 教室日程查询参数
type ListSessionsQuery struct {
	ClassroomID string `form:"classroom_id" binding:"required,uuid"`
	Date        string `form:"date"         binding:"required,datetime=2006-01-02"`
}
