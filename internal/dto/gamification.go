package dto

import "encoding/json"

// ── 成就 DTO ──

// AwardAchievementRequest 授予成就请求（progress 为任意 JSON 对象）
type AwardAchievementRequest struct {
	StudentID     string          `json:"student_id"     binding:"required,uuid"`
	AchievementID string          `json:"achievement_id" binding:"required,uuid"`
	Progress      json.RawMessage `json:"progress"`
}
