package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/internal/repository"
)

// memStore 内存数据源，所有 mock 仓储共享同一份数据以便验证级联效果
type memStore struct {
	mu sync.Mutex

	periods       map[string]*model.AcademicPeriod
	semesters     map[string]*model.Semester
	classrooms    map[string]*model.Classroom
	slots         map[string]*model.TimeSlot
	fields        map[string]*model.FieldOfStudy
	courses       map[string]*model.Course
	professors    map[string]*model.Professor
	assignments   map[string]*model.CourseAssignment
	sessions      map[string]*model.ClassSession
	students      map[string]*model.Student
	profiles      map[string]*model.UserProfile
	violations    map[string]*model.Violation
	enrollments   map[string]*model.StudentEnrollment
	assessments   map[string]*model.Assessment
	results       map[string]*model.StudentResult
	achievements  map[string]*model.Achievement
	awards        map[string]*model.StudentAchievement
	notifications map[string]*model.Notification
	events        map[string]*model.Event
	participants  map[string]*model.EventParticipant

	touched []string // entity:id
}

func newMemStore() *memStore {
	return &memStore{
		periods:       make(map[string]*model.AcademicPeriod),
		semesters:     make(map[string]*model.Semester),
		classrooms:    make(map[string]*model.Classroom),
		slots:         make(map[string]*model.TimeSlot),
		fields:        make(map[string]*model.FieldOfStudy),
		courses:       make(map[string]*model.Course),
		professors:    make(map[string]*model.Professor),
		assignments:   make(map[string]*model.CourseAssignment),
		sessions:      make(map[string]*model.ClassSession),
		students:      make(map[string]*model.Student),
		profiles:      make(map[string]*model.UserProfile),
		violations:    make(map[string]*model.Violation),
		enrollments:   make(map[string]*model.StudentEnrollment),
		assessments:   make(map[string]*model.Assessment),
		results:       make(map[string]*model.StudentResult),
		achievements:  make(map[string]*model.Achievement),
		awards:        make(map[string]*model.StudentAchievement),
		notifications: make(map[string]*model.Notification),
		events:        make(map[string]*model.Event),
		participants:  make(map[string]*model.EventParticipant),
	}
}

// newMockRepository 组装未绑定数据库的仓储聚合，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *memStore) {
	s := newMemStore()
	return &repository.Repository{
		Period:             &mockPeriodRepo{s},
		Semester:           &mockSemesterRepo{s},
		Classroom:          &mockClassroomRepo{s},
		TimeSlot:           &mockTimeSlotRepo{s},
		FieldOfStudy:       &mockFieldRepo{s},
		Course:             &mockCourseRepo{s},
		Professor:          &mockProfessorRepo{s},
		Assignment:         &mockAssignmentRepo{s},
		Session:            &mockSessionRepo{s},
		Student:            &mockStudentRepo{s},
		Profile:            &mockProfileRepo{s},
		Violation:          &mockViolationRepo{s},
		Enrollment:         &mockEnrollmentRepo{s},
		Assessment:         &mockAssessmentRepo{s},
		Result:             &mockResultRepo{s},
		Achievement:        &mockAchievementRepo{s},
		StudentAchievement: &mockAwardRepo{s},
		Notification:       &mockNotificationRepo{s},
		Event:              &mockEventRepo{s},
		Participant:        &mockParticipantRepo{s},
		Audit:              &mockAuditRepo{s},
	}, s
}

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct{ s *memStore }

func (m *mockPeriodRepo) Create(_ context.Context, p *model.AcademicPeriod) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = p.BeforeCreate(nil)
	c := *p
	m.s.periods[p.PeriodID] = &c
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.AcademicPeriod, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p, ok := m.s.periods[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.AcademicPeriod, error) {
	return m.GetByID(ctx, id)
}

func (m *mockPeriodRepo) GetCurrent(_ context.Context) (*model.AcademicPeriod, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.periods {
		if p.IsCurrent {
			c := *p
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.AcademicPeriod, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.AcademicPeriod
	for _, p := range m.s.periods {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (m *mockPeriodRepo) ClearCurrent(_ context.Context, exceptID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var cleared []string
	for id, p := range m.s.periods {
		if p.IsCurrent && id != exceptID {
			p.IsCurrent = false
			cleared = append(cleared, id)
		}
	}
	return cleared, nil
}

func (m *mockPeriodRepo) SetCurrent(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.periods[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsCurrent = true
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct{ s *memStore }

func (m *mockSemesterRepo) Create(_ context.Context, sem *model.Semester) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = sem.BeforeCreate(nil)
	c := *sem
	m.s.semesters[sem.SemesterID] = &c
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sem, ok := m.s.semesters[id]; ok {
		c := *sem
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context, periodID string) (*model.Semester, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, sem := range m.s.semesters {
		if sem.PeriodID == periodID && sem.IsCurrent {
			c := *sem
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) ListByPeriod(_ context.Context, periodID string) ([]model.Semester, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Semester
	for _, sem := range m.s.semesters {
		if sem.PeriodID == periodID {
			out = append(out, *sem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (m *mockSemesterRepo) ExistsOrdinal(_ context.Context, periodID string, ordinal int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, sem := range m.s.semesters {
		if sem.PeriodID == periodID && sem.Ordinal == ordinal {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSemesterRepo) ClearCurrent(_ context.Context, periodID, exceptID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var cleared []string
	for id, sem := range m.s.semesters {
		if sem.PeriodID == periodID && sem.IsCurrent && id != exceptID {
			sem.IsCurrent = false
			cleared = append(cleared, id)
		}
	}
	return cleared, nil
}

func (m *mockSemesterRepo) SetCurrent(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sem, ok := m.s.semesters[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sem.IsCurrent = true
	return nil
}

// ── Mock ClassroomRepository / TimeSlotRepository ──

type mockClassroomRepo struct{ s *memStore }

func (m *mockClassroomRepo) Create(_ context.Context, c *model.Classroom) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = c.BeforeCreate(nil)
	cp := *c
	m.s.classrooms[c.ClassroomID] = &cp
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.classrooms[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Classroom, error) {
	return m.GetByID(ctx, id)
}

func (m *mockClassroomRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.classrooms {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockClassroomRepo) List(_ context.Context) ([]model.Classroom, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Classroom
	for _, c := range m.s.classrooms {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockTimeSlotRepo struct{ s *memStore }

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = slot.BeforeCreate(nil)
	c := *slot
	m.s.slots[slot.TimeSlotID] = &c
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if slot, ok := m.s.slots[id]; ok {
		c := *slot
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) List(_ context.Context) ([]model.TimeSlot, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.TimeSlot
	for _, slot := range m.s.slots {
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// ── Mock 课程目录 ──

type mockFieldRepo struct{ s *memStore }

func (m *mockFieldRepo) Create(_ context.Context, f *model.FieldOfStudy) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = f.BeforeCreate(nil)
	c := *f
	m.s.fields[f.FieldID] = &c
	return nil
}

func (m *mockFieldRepo) GetByID(_ context.Context, id string) (*model.FieldOfStudy, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if f, ok := m.s.fields[id]; ok {
		c := *f
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFieldRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, f := range m.s.fields {
		if f.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type mockCourseRepo struct{ s *memStore }

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = course.BeforeCreate(nil)
	c := *course
	m.s.courses[course.CourseID] = &c
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if course, ok := m.s.courses[id]; ok {
		c := *course
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, course := range m.s.courses {
		if course.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type mockProfessorRepo struct{ s *memStore }

func (m *mockProfessorRepo) Create(_ context.Context, p *model.Professor) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = p.BeforeCreate(nil)
	c := *p
	m.s.professors[p.ProfessorID] = &c
	return nil
}

func (m *mockProfessorRepo) GetByID(_ context.Context, id string) (*model.Professor, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p, ok := m.s.professors[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfessorRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.professors {
		if p.Email != nil && *p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockAssignmentRepo struct{ s *memStore }

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.CourseAssignment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = a.BeforeCreate(nil)
	c := *a
	m.s.assignments[a.AssignmentID] = &c
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.CourseAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a, ok := m.s.assignments[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.CourseAssignment, error) {
	return m.GetByID(ctx, id)
}

func (m *mockAssignmentRepo) Exists(_ context.Context, courseID, professorID, semesterID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.assignments {
		if a.CourseID == courseID && a.ProfessorID == professorID && a.SemesterID == semesterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) ListBySemester(_ context.Context, semesterID string) ([]model.CourseAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.CourseAssignment
	for _, a := range m.s.assignments {
		if a.SemesterID == semesterID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.assignments, id)
	return nil
}

// ── Mock ClassSessionRepository ──

type mockSessionRepo struct{ s *memStore }

func (m *mockSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = session.BeforeCreate(nil)
	c := *session
	m.s.sessions[session.SessionID] = &c
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.ClassSession, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if session, ok := m.s.sessions[id]; ok {
		c := *session
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.ClassSession) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *session
	m.s.sessions[session.SessionID] = &c
	return nil
}

func (m *mockSessionRepo) ExistsActiveBooking(_ context.Context, classroomID string, date time.Time, timeSlotID, excludeID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, session := range m.s.sessions {
		if id == excludeID || !session.Occupies() {
			continue
		}
		if *session.ClassroomID == classroomID && sameDay(session.SessionDate, date) && session.TimeSlotID == timeSlotID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSessionRepo) ListByClassroomDate(_ context.Context, classroomID string, date time.Time) ([]model.ClassSession, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.ClassSession
	for _, session := range m.s.sessions {
		if session.ClassroomID != nil && *session.ClassroomID == classroomID && sameDay(session.SessionDate, date) {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) DeleteByAssignment(_ context.Context, assignmentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, session := range m.s.sessions {
		if session.AssignmentID == assignmentID {
			delete(m.s.sessions, id)
		}
	}
	return nil
}

// ── Mock 学生 / 画像 / 违纪 ──

type mockStudentRepo struct{ s *memStore }

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = student.BeforeCreate(nil)
	c := *student
	m.s.students[student.StudentID] = &c
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if student, ok := m.s.students[id]; ok {
		c := *student
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, student := range m.s.students {
		if student.StudentNumber != nil && *student.StudentNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, student := range m.s.students {
		if student.Email != nil && *student.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) IncrementWarnings(_ context.Context, id string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	student, ok := m.s.students[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	student.WarningCount++
	return student.WarningCount, nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.students, id)
	return nil
}

type mockProfileRepo struct{ s *memStore }

func (m *mockProfileRepo) Create(_ context.Context, p *model.UserProfile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = p.BeforeCreate(nil)
	c := *p
	m.s.profiles[p.ProfileID] = &c
	return nil
}

func (m *mockProfileRepo) GetByStudent(_ context.Context, studentID string) (*model.UserProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.profiles {
		if p.StudentID == studentID {
			c := *p
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, p := range m.s.profiles {
		if p.StudentID == studentID {
			delete(m.s.profiles, id)
		}
	}
	return nil
}

type mockViolationRepo struct{ s *memStore }

func (m *mockViolationRepo) Create(_ context.Context, v *model.Violation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.students[v.StudentID]; !ok {
		return gorm.ErrRecordNotFound // 外键
	}
	_ = v.BeforeCreate(nil)
	c := *v
	m.s.violations[v.ViolationID] = &c
	return nil
}

func (m *mockViolationRepo) GetByID(_ context.Context, id string) (*model.Violation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if v, ok := m.s.violations[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockViolationRepo) Update(_ context.Context, v *model.Violation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *v
	m.s.violations[v.ViolationID] = &c
	return nil
}

func (m *mockViolationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Violation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Violation
	for _, v := range m.s.violations {
		if v.StudentID == studentID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockViolationRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, v := range m.s.violations {
		if v.StudentID == studentID {
			delete(m.s.violations, id)
		}
	}
	return nil
}

// ── Mock 选课 / 考核 / 成绩 ──

type mockEnrollmentRepo struct{ s *memStore }

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.StudentEnrollment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = e.BeforeCreate(nil)
	c := *e
	m.s.enrollments[e.EnrollmentID] = &c
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.StudentEnrollment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if e, ok := m.s.enrollments[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Exists(_ context.Context, studentID, assignmentID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, e := range m.s.enrollments {
		if e.StudentID == studentID && e.AssignmentID == assignmentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) CountActive(_ context.Context, assignmentID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, e := range m.s.enrollments {
		if e.AssignmentID == assignmentID && e.Status != model.EnrollmentDropped {
			n++
		}
	}
	return n, nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentEnrollment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.StudentEnrollment
	for _, e := range m.s.enrollments {
		if e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.StudentEnrollment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *e
	m.s.enrollments[e.EnrollmentID] = &c
	return nil
}

func (m *mockEnrollmentRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, e := range m.s.enrollments {
		if e.StudentID == studentID {
			delete(m.s.enrollments, id)
		}
	}
	return nil
}

func (m *mockEnrollmentRepo) DeleteByAssignment(_ context.Context, assignmentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, e := range m.s.enrollments {
		if e.AssignmentID == assignmentID {
			delete(m.s.enrollments, id)
		}
	}
	return nil
}

type mockAssessmentRepo struct{ s *memStore }

func (m *mockAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = a.BeforeCreate(nil)
	c := *a
	m.s.assessments[a.AssessmentID] = &c
	return nil
}

func (m *mockAssessmentRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a, ok := m.s.assessments[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssessmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Assessment, error) {
	return m.GetByID(ctx, id)
}

func (m *mockAssessmentRepo) Update(_ context.Context, a *model.Assessment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *a
	m.s.assessments[a.AssessmentID] = &c
	return nil
}

func (m *mockAssessmentRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.Assessment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Assessment
	for _, a := range m.s.assessments {
		if a.AssignmentID == assignmentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAssessmentRepo) DeleteByAssignment(_ context.Context, assignmentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, a := range m.s.assessments {
		if a.AssignmentID == assignmentID {
			delete(m.s.assessments, id)
		}
	}
	return nil
}

type mockResultRepo struct{ s *memStore }

func (m *mockResultRepo) Upsert(_ context.Context, r *model.StudentResult) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.results {
		if existing.StudentID == r.StudentID && existing.AssessmentID == r.AssessmentID {
			existing.RawScore = r.RawScore
			existing.PercentageScore = r.PercentageScore
			existing.UpdatedBy = r.UpdatedBy
			*r = *existing
			return nil
		}
	}
	_ = r.BeforeCreate(nil)
	c := *r
	m.s.results[r.ResultID] = &c
	return nil
}

func (m *mockResultRepo) GetByPair(_ context.Context, studentID, assessmentID string) (*model.StudentResult, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.results {
		if r.StudentID == studentID && r.AssessmentID == assessmentID {
			c := *r
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResultRepo) ListByAssessment(_ context.Context, assessmentID string) ([]model.StudentResult, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.StudentResult
	for _, r := range m.s.results {
		if r.AssessmentID == assessmentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockResultRepo) UpdatePercentage(_ context.Context, id string, percentage float64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.results[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.PercentageScore = percentage
	return nil
}

func (m *mockResultRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, r := range m.s.results {
		if r.StudentID == studentID {
			delete(m.s.results, id)
		}
	}
	return nil
}

func (m *mockResultRepo) DeleteByAssessment(_ context.Context, assessmentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, r := range m.s.results {
		if r.AssessmentID == assessmentID {
			delete(m.s.results, id)
		}
	}
	return nil
}

// ── Mock 成就 ──

type mockAchievementRepo struct{ s *memStore }

func (m *mockAchievementRepo) Create(_ context.Context, a *model.Achievement) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = a.BeforeCreate(nil)
	c := *a
	m.s.achievements[a.AchievementID] = &c
	return nil
}

func (m *mockAchievementRepo) GetByID(_ context.Context, id string) (*model.Achievement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a, ok := m.s.achievements[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAchievementRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.achievements {
		if a.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type mockAwardRepo struct{ s *memStore }

func (m *mockAwardRepo) GetByPair(_ context.Context, studentID, achievementID string) (*model.StudentAchievement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.awards {
		if a.StudentID == studentID && a.AchievementID == achievementID {
			c := *a
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAwardRepo) Upsert(_ context.Context, award *model.StudentAchievement) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.awards {
		if existing.StudentID == award.StudentID && existing.AchievementID == award.AchievementID {
			existing.Progress = award.Progress
			existing.UpdatedBy = award.UpdatedBy
			*award = *existing
			return nil
		}
	}
	_ = award.BeforeCreate(nil)
	c := *award
	m.s.awards[award.StudentAchievementID] = &c
	return nil
}

func (m *mockAwardRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentAchievement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.StudentAchievement
	for _, a := range m.s.awards {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAwardRepo) ListPendingForUpdate(_ context.Context, limit int) ([]model.StudentAchievement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.StudentAchievement
	for _, a := range m.s.awards {
		if !a.Notified {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardedAt.Before(out[j].AwardedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAwardRepo) MarkNotified(_ context.Context, ids []string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, id := range ids {
		if a, ok := m.s.awards[id]; ok {
			a.Notified = true
		}
	}
	return nil
}

func (m *mockAwardRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, a := range m.s.awards {
		if a.StudentID == studentID {
			delete(m.s.awards, id)
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct{ s *memStore }

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = n.BeforeCreate(nil)
	c := *n
	m.s.notifications[n.NotificationID] = &c
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if n, ok := m.s.notifications[id]; ok {
		c := *n
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Notification, error) {
	return m.GetByID(ctx, id)
}

func (m *mockNotificationRepo) Update(_ context.Context, n *model.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *n
	m.s.notifications[n.NotificationID] = &c
	return nil
}

func (m *mockNotificationRepo) ListDue(_ context.Context, before time.Time, limit int) ([]model.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Notification
	for _, n := range m.s.notifications {
		if n.Status == model.NotificationScheduled && !n.ScheduledFor.After(before) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.Before(out[j].ScheduledFor)
		}
		return out[i].Priority > out[j].Priority
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockNotificationRepo) ListClaimableForUpdate(_ context.Context, now, staleBefore time.Time, limit int) ([]model.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Notification
	for _, n := range m.s.notifications {
		due := n.Status == model.NotificationScheduled && !n.ScheduledFor.After(now)
		stale := n.Status == model.NotificationSent && n.SentAt != nil && n.SentAt.Before(staleBefore)
		if due || stale {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.Before(out[j].ScheduledFor)
		}
		return out[i].Priority > out[j].Priority
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkSent(_ context.Context, ids []string, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, id := range ids {
		if n, ok := m.s.notifications[id]; ok && n.Status != model.NotificationDelivered {
			sentAt := at
			n.Status = model.NotificationSent
			n.SentAt = &sentAt
		}
	}
	return nil
}

func (m *mockNotificationRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, n := range m.s.notifications {
		if n.StudentID != nil && *n.StudentID == studentID {
			delete(m.s.notifications, id)
		}
	}
	return nil
}

// ── Mock 活动 ──

type mockEventRepo struct{ s *memStore }

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = e.BeforeCreate(nil)
	c := *e
	m.s.events[e.EventID] = &c
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if e, ok := m.s.events[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockParticipantRepo struct{ s *memStore }

func (m *mockParticipantRepo) Create(_ context.Context, p *model.EventParticipant) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_ = p.BeforeCreate(nil)
	c := *p
	m.s.participants[p.ParticipantID] = &c
	return nil
}

func (m *mockParticipantRepo) ExistsStudent(_ context.Context, eventID, studentID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.participants {
		if p.EventID == eventID && p.StudentID != nil && *p.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockParticipantRepo) ExistsProfessor(_ context.Context, eventID, professorID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.participants {
		if p.EventID == eventID && p.ProfessorID != nil && *p.ProfessorID == professorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockParticipantRepo) ListByEvent(_ context.Context, eventID string) ([]model.EventParticipant, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.EventParticipant
	for _, p := range m.s.participants {
		if p.EventID == eventID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockParticipantRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, p := range m.s.participants {
		if p.StudentID != nil && *p.StudentID == studentID {
			delete(m.s.participants, id)
		}
	}
	return nil
}

// ── Mock AuditRepository ──

type mockAuditRepo struct{ s *memStore }

func (m *mockAuditRepo) Touch(_ context.Context, entity, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.touched = append(m.s.touched, entity+":"+id)
	return nil
}

// ── 计数辅助 ──

func (s *memStore) count(fn func(s *memStore) int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *memStore) notificationsFor(studentID, typ string) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.StudentID != nil && *n.StudentID == studentID && n.Type == typ {
			out = append(out, *n)
		}
	}
	return out
}

func (s *memStore) wasTouched(entity, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.touched {
		if t == entity+":"+id {
			return true
		}
	}
	return false
}
