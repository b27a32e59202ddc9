package dto

import "time"

// ── 通知 DTO ──

// EnqueueNotificationRequest 创建通知请求（student_id 与 professor_id 有且仅有一个）
type EnqueueNotificationRequest struct {
	StudentID    *string   `json:"student_id"    binding:"omitempty,uuid"`
	ProfessorID  *string   `json:"professor_id"  binding:"omitempty,uuid"`
	Type         string    `json:"type"          binding:"required,max=50"`
	Title        string    `json:"title"         binding:"required,max=200"`
	Content      string    `json:"content"       binding:"required"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
	Priority     int       `json:"priority"      binding:"omitempty,min=1,max=4"`
}

// RespondNotificationRequest 回复通知请求
type RespondNotificationRequest struct {
	Response string `json:"response" binding:"required"`
}

// ListDueQuery 到期通知查询参数
type ListDueQuery struct {
	Before time.Time `form:"before" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit  int       `form:"limit"  binding:"omitempty,min=1,max=500"`
}
