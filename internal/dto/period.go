package dto

// ── 学年 / 学期 DTO ──

// CreatePeriodRequest 创建学年请求
type CreatePeriodRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"` // "2025-09-01"
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	IsCurrent bool   `json:"is_current"`
}

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	PeriodID  string `json:"period_id"  binding:"required,uuid"`
	Ordinal   int    `json:"ordinal"    binding:"required,oneof=1 2"`
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	IsCurrent bool   `json:"is_current"`
}
