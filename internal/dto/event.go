package dto

import "time"

// ── 活动 DTO ──

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Title       string    `json:"title"       binding:"required,max=200"`
	Description string    `json:"description"`
	Location    string    `json:"location"    binding:"max=200"`
	StartsAt    time.Time `json:"starts_at"   binding:"required"`
	EndsAt      time.Time `json:"ends_at"     binding:"required"`
}

// AddParticipantRequest 添加参与者请求（三选一）
type AddParticipantRequest struct {
	StudentID    *string `json:"student_id"    binding:"omitempty,uuid"`
	ProfessorID  *string `json:"professor_id"  binding:"omitempty,uuid"`
	ExternalName *string `json:"external_name" binding:"omitempty,max=200"`
}
