package dto

// ── 选课 / 考核 / 成绩 DTO ──

// EnrollRequest 选课请求
type EnrollRequest struct {
	StudentID    string `json:"student_id"    binding:"required,uuid"`
	AssignmentID string `json:"assignment_id" binding:"required,uuid"`
}

// CreateAssessmentRequest 创建考核请求
type CreateAssessmentRequest struct {
	AssignmentID     string  `json:"assignment_id"     binding:"required,uuid"`
	Name             string  `json:"name"              binding:"required,max=200"`
	Type             string  `json:"type"              binding:"omitempty,oneof=exam quiz project homework"`
	TotalPoints      float64 `json:"total_points"`
	WeightPercentage float64 `json:"weight_percentage"`
}

// UpdateTotalPointsRequest 修改考核总分请求
type UpdateTotalPointsRequest struct {
	TotalPoints float64 `json:"total_points"`
}

// RecordResultRequest 录入成绩请求
type RecordResultRequest struct {
	StudentID    string  `json:"student_id"    binding:"required,uuid"`
	AssessmentID string  `json:"assessment_id" binding:"required,uuid"`
	RawScore     float64 `json:"raw_score"`
}

// FinalizeGradeRequest 确定总评请求
type FinalizeGradeRequest struct {
	FinalGrade float64 `json:"final_grade"`
}
