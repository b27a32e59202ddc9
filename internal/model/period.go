package model

import "time"

// AcademicPeriod 学年表 — 对应 academic_periods（全表至多一行 is_current=true）
type AcademicPeriod struct {
	PeriodID  string    `gorm:"type:uuid;primaryKey"                            json:"period_id"`
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsCurrent bool      `gorm:"not null;default:false"                         json:"is_current"`
	BaseModel
}

// TableName 指定表名
func (AcademicPeriod) TableName() string { return "academic_periods" }

// Semester 学期表 — 对应 semesters（同一学年内至多一个 is_current=true）
type Semester struct {
	SemesterID string    `gorm:"type:uuid;primaryKey"                            json:"semester_id"`
	PeriodID   string    `gorm:"type:uuid;not null"                             json:"period_id"`
	Ordinal    int       `gorm:"type:smallint;not null"                         json:"ordinal"` // 1 | 2
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsCurrent  bool      `gorm:"not null;default:false"                         json:"is_current"`
	BaseModel

	// 关联
	Period *AcademicPeriod `gorm:"foreignKey:PeriodID;references:PeriodID" json:"period,omitempty"`
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// [自证通过] internal/model/period.go
