package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/dispatcher"
	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
)

// ── 选课 / 成绩模块业务错误 ──

var (
	ErrEnrollmentNotFound   = pkgerrors.New(pkgerrors.KindNotFound, "选课记录不存在")
	ErrAlreadyEnrolled      = pkgerrors.New(pkgerrors.KindDuplicateKey, "学生已选该课程")
	ErrAssignmentFull       = pkgerrors.New(pkgerrors.KindConflict, "该授课安排已满员")
	ErrEnrollmentDropped    = pkgerrors.New(pkgerrors.KindInvariant, "已退课的选课记录不能评定成绩")
	ErrAssessmentNotFound   = pkgerrors.New(pkgerrors.KindNotFound, "考核不存在")
	ErrTotalPointsInvalid   = pkgerrors.New(pkgerrors.KindInvariant, "考核总分必须大于 0")
	ErrWeightInvalid        = pkgerrors.New(pkgerrors.KindInvariant, "考核权重必须在 0 到 100 之间")
	ErrRawScoreNegative     = pkgerrors.New(pkgerrors.KindInvariant, "原始分不能为负数")
	ErrFinalGradeOutOfRange = pkgerrors.New(pkgerrors.KindInvariant, "总评超出分数区间")
)

// LedgerService 选课与考核台账
type LedgerService interface {
	Enroll(ctx context.Context, req *dto.EnrollRequest, callerID string) (*model.StudentEnrollment, error)
	DropEnrollment(ctx context.Context, id string, callerID string) error
	ListEnrollments(ctx context.Context, studentID string) ([]model.StudentEnrollment, error)
	CreateAssessment(ctx context.Context, req *dto.CreateAssessmentRequest, callerID string) (*model.Assessment, error)
	UpdateAssessmentTotalPoints(ctx context.Context, id string, totalPoints float64, callerID string) (*model.Assessment, error)
	RecordResult(ctx context.Context, req *dto.RecordResultRequest, callerID string) (*model.StudentResult, error)
	ListResults(ctx context.Context, assessmentID string) ([]model.StudentResult, error)
	FinalizeGrade(ctx context.Context, enrollmentID string, finalGrade float64, callerID string) (*model.StudentEnrollment, error)
}

type ledgerService struct {
	repo       *repository.Repository
	dispatcher *dispatcher.Dispatcher
	scale      *GradeScale
	logger     *zap.Logger
}

// NewLedgerService 创建 LedgerService 实例
func NewLedgerService(repo *repository.Repository, d *dispatcher.Dispatcher, scale *GradeScale, logger *zap.Logger) LedgerService {
	return &ledgerService{repo: repo, dispatcher: d, scale: scale, logger: logger}
}

// percentage = raw / total × 100，保留两位小数
func percentage(raw, total float64) float64 {
	return math.Round(raw/total*100*100) / 100
}

// ────────────────────── 选课 ──────────────────────

func (s *ledgerService) Enroll(ctx context.Context, req *dto.EnrollRequest, callerID string) (*model.StudentEnrollment, error) {
	enrollment := &model.StudentEnrollment{
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		Status:       model.EnrollmentEnrolled,
		EnrolledAt:   time.Now().UTC(),
	}
	enrollment.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Student.GetByID(ctx, req.StudentID); err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		// 锁定授课安排：同一安排的并发选课串行执行容量检查
		assignment, err := tx.Assignment.GetByIDForUpdate(ctx, req.AssignmentID)
		if err != nil {
			return notFound(err, ErrAssignmentNotFound)
		}
		exists, err := tx.Enrollment.Exists(ctx, req.StudentID, req.AssignmentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyEnrolled
		}
		active, err := tx.Enrollment.CountActive(ctx, req.AssignmentID)
		if err != nil {
			return err
		}
		if active >= int64(assignment.MaxStudents) {
			return ErrAssignmentFull
		}
		if err := tx.Enrollment.Create(ctx, enrollment); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityStudentEnrollment, dispatcher.Created, enrollment.EnrollmentID, enrollment, callerID)
	})
	if err != nil {
		logFailure(s.logger, "选课失败", err,
			zap.String("student_id", req.StudentID), zap.String("assignment_id", req.AssignmentID))
		return nil, err
	}
	return enrollment, nil
}

// DropEnrollment 退课；重复退课为空操作
func (s *ledgerService) DropEnrollment(ctx context.Context, id string, callerID string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		enrollment, err := tx.Enrollment.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrEnrollmentNotFound)
		}
		if enrollment.Status == model.EnrollmentDropped {
			return nil
		}
		enrollment.Status = model.EnrollmentDropped
		enrollment.Stamp(callerID)
		if err := tx.Enrollment.Update(ctx, enrollment); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityStudentEnrollment, dispatcher.Updated, enrollment.EnrollmentID, enrollment, callerID)
	})
	if err != nil {
		logFailure(s.logger, "退课失败", err, zap.String("enrollment_id", id))
	}
	return err
}

func (s *ledgerService) ListEnrollments(ctx context.Context, studentID string) ([]model.StudentEnrollment, error) {
	list, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// ────────────────────── 考核 ──────────────────────

func (s *ledgerService) CreateAssessment(ctx context.Context, req *dto.CreateAssessmentRequest, callerID string) (*model.Assessment, error) {
	if req.TotalPoints <= 0 {
		return nil, ErrTotalPointsInvalid
	}
	if req.WeightPercentage < 0 || req.WeightPercentage > 100 {
		return nil, ErrWeightInvalid
	}
	kind := req.Type
	if kind == "" {
		kind = "exam"
	}

	assessment := &model.Assessment{
		AssignmentID:     req.AssignmentID,
		Name:             req.Name,
		Type:             kind,
		TotalPoints:      req.TotalPoints,
		WeightPercentage: req.WeightPercentage,
	}
	assessment.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Assignment.GetByID(ctx, req.AssignmentID); err != nil {
			return notFound(err, ErrAssignmentNotFound)
		}
		if err := tx.Assessment.Create(ctx, assessment); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityAssessment, dispatcher.Created, assessment.AssessmentID, assessment, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建考核失败", err, zap.String("assignment_id", req.AssignmentID))
		return nil, err
	}
	return assessment, nil
}

// UpdateAssessmentTotalPoints 修改总分并在同一工作单元内重算该考核全部成绩百分比
func (s *ledgerService) UpdateAssessmentTotalPoints(ctx context.Context, id string, totalPoints float64, callerID string) (*model.Assessment, error) {
	if totalPoints <= 0 {
		return nil, ErrTotalPointsInvalid
	}

	var updated *model.Assessment
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		assessment, err := tx.Assessment.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrAssessmentNotFound)
		}
		assessment.TotalPoints = totalPoints
		assessment.Stamp(callerID)
		if err := tx.Assessment.Update(ctx, assessment); err != nil {
			return err
		}
		if err := emit(ctx, s.dispatcher, tx, model.EntityAssessment, dispatcher.Updated, id, assessment, callerID); err != nil {
			return err
		}

		results, err := tx.Result.ListByAssessment(ctx, id)
		if err != nil {
			return err
		}
		for i := range results {
			r := &results[i]
			pct := percentage(r.RawScore, totalPoints)
			if pct == r.PercentageScore {
				continue
			}
			if err := tx.Result.UpdatePercentage(ctx, r.ResultID, pct); err != nil {
				return err
			}
			r.PercentageScore = pct
			if err := emit(ctx, s.dispatcher, tx, model.EntityStudentResult, dispatcher.Updated, r.ResultID, r, callerID); err != nil {
				return err
			}
		}
		updated = assessment
		return nil
	})
	if err != nil {
		logFailure(s.logger, "修改考核总分失败", err, zap.String("assessment_id", id))
		return nil, err
	}
	return updated, nil
}

// ────────────────────── 成绩 ──────────────────────

// RecordResult 按 (student, assessment) 写入成绩，重复录入覆盖原值
func (s *ledgerService) RecordResult(ctx context.Context, req *dto.RecordResultRequest, callerID string) (*model.StudentResult, error) {
	if req.RawScore < 0 {
		return nil, ErrRawScoreNegative
	}

	result := &model.StudentResult{
		StudentID:    req.StudentID,
		AssessmentID: req.AssessmentID,
		RawScore:     req.RawScore,
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Student.GetByID(ctx, req.StudentID); err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		assessment, err := tx.Assessment.GetByIDForUpdate(ctx, req.AssessmentID)
		if err != nil {
			return notFound(err, ErrAssessmentNotFound)
		}

		lifecycle := dispatcher.Updated
		if _, err := tx.Result.GetByPair(ctx, req.StudentID, req.AssessmentID); err != nil {
			if !isNotFound(err) {
				return err
			}
			lifecycle = dispatcher.Created
		}

		result.PercentageScore = percentage(req.RawScore, assessment.TotalPoints)
		result.Stamp(callerID)
		if err := tx.Result.Upsert(ctx, result); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityStudentResult, lifecycle, result.ResultID, result, callerID)
	})
	if err != nil {
		logFailure(s.logger, "录入成绩失败", err,
			zap.String("student_id", req.StudentID), zap.String("assessment_id", req.AssessmentID))
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) ListResults(ctx context.Context, assessmentID string) ([]model.StudentResult, error) {
	list, err := s.repo.Result.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// ────────────────────── 总评 ──────────────────────

func (s *ledgerService) FinalizeGrade(ctx context.Context, enrollmentID string, finalGrade float64, callerID string) (*model.StudentEnrollment, error) {
	if !s.scale.InRange(finalGrade) {
		return nil, ErrFinalGradeOutOfRange
	}
	letter := s.scale.Letter(finalGrade)
	status := model.EnrollmentCompleted
	if !s.scale.Passed(finalGrade) {
		status = model.EnrollmentFailed
	}

	var finalized *model.StudentEnrollment
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		enrollment, err := tx.Enrollment.GetByID(ctx, enrollmentID)
		if err != nil {
			return notFound(err, ErrEnrollmentNotFound)
		}
		if enrollment.Status == model.EnrollmentDropped {
			return ErrEnrollmentDropped
		}
		grade := finalGrade
		enrollment.FinalGrade = &grade
		enrollment.GradeLetter = &letter
		enrollment.Status = status
		enrollment.Stamp(callerID)
		if err := tx.Enrollment.Update(ctx, enrollment); err != nil {
			return err
		}
		finalized = enrollment
		return emit(ctx, s.dispatcher, tx, model.EntityStudentEnrollment, dispatcher.Updated, enrollmentID, enrollment, callerID)
	})
	if err != nil {
		logFailure(s.logger, "评定总评失败", err, zap.String("enrollment_id", enrollmentID))
		return nil, err
	}
	return finalized, nil
}

// [自证通过] internal/service/ledger_service.go
