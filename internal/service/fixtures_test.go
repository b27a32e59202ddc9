package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/config"
	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Grading: config.GradingConfig{
			MinGrade: 0,
			MaxGrade: 20,
			PassMark: 10,
			Letters: []config.LetterThreshold{
				{Min: 10, Letter: "D"},
				{Min: 18, Letter: "A+"},
				{Min: 0, Letter: "F"},
				{Min: 14, Letter: "B"},
				{Min: 16, Letter: "A"},
				{Min: 12, Letter: "C"},
			},
		},
		Reactions: config.ReactionsConfig{WarningThreshold: 3},
	}
}

func setupTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	repo, store := newMockRepository()
	svc, err := NewService(testConfig(), repo, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService 应成功: %v", err)
	}
	return svc, store
}

func strPtr(s string) *string { return &s }

func seedStudent(t *testing.T, svc *Service, firstName string) *model.Student {
	t.Helper()
	student, err := svc.Student.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		FirstName: firstName,
		LastName:  "Test",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建学生应成功: %v", err)
	}
	return student
}

// seedAssignment 创建学年 → 学期 → 课程 / 教师 → 授课安排
func seedAssignment(t *testing.T, svc *Service, maxStudents int) *model.CourseAssignment {
	t.Helper()
	ctx := context.Background()

	period, err := svc.Period.CreatePeriod(ctx, &dto.CreatePeriodRequest{
		Name: "2025-2026", StartDate: "2025-09-01", EndDate: "2026-07-15",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建学年应成功: %v", err)
	}
	semester, err := svc.Period.CreateSemester(ctx, &dto.CreateSemesterRequest{
		PeriodID: period.PeriodID, Ordinal: 1, Name: "S1", StartDate: "2025-09-01", EndDate: "2026-01-31",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建学期应成功: %v", err)
	}
	course, err := svc.Catalog.CreateCourse(ctx, &dto.CreateCourseRequest{
		Code: "ALG-" + period.PeriodID[:8], Name: "Algorithmique", Credits: 6,
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建课程应成功: %v", err)
	}
	prof, err := svc.Catalog.CreateProfessor(ctx, &dto.CreateProfessorRequest{
		FirstName: "Amina", LastName: "Benali",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建教师应成功: %v", err)
	}
	assignment, err := svc.Catalog.CreateCourseAssignment(ctx, &dto.CreateCourseAssignmentRequest{
		CourseID: course.CourseID, ProfessorID: prof.ProfessorID, SemesterID: semester.SemesterID,
		MaxStudents: maxStudents,
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建授课安排应成功: %v", err)
	}
	return assignment
}

func seedRoomAndSlot(t *testing.T, svc *Service, roomName string) (*model.Classroom, *model.TimeSlot) {
	t.Helper()
	ctx := context.Background()
	room, err := svc.Catalog.CreateClassroom(ctx, &dto.CreateClassroomRequest{
		Name: roomName, Building: "A", Capacity: 40,
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建教室应成功: %v", err)
	}
	slot, err := svc.Catalog.CreateTimeSlot(ctx, &dto.CreateTimeSlotRequest{
		Name: "M1-" + roomName, StartTime: "08:30", EndTime: "10:00",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建时间段应成功: %v", err)
	}
	return room, slot
}
