package dto

// ── 学生 / 违纪 DTO ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	StudentNumber *string `json:"student_number" binding:"omitempty,max=32"`
	Email         *string `json:"email"          binding:"omitempty,email"`
	FirstName     string  `json:"first_name"     binding:"required,max=100"`
	LastName      string  `json:"last_name"      binding:"max=100"`
	FieldID       *string `json:"field_id"       binding:"omitempty,uuid"`
	AcademicYear  int     `json:"academic_year"`
}

// RecordViolationRequest 记录违纪请求
type RecordViolationRequest struct {
	StudentID   string `json:"student_id"  binding:"required,uuid"`
	Severity    string `json:"severity"    binding:"required,oneof=minor major critical"`
	Description string `json:"description"`
}
