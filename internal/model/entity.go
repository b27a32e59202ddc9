package model

// 实体名（副作用分发器的 topic 与审计 touch 都以此为键）
const (
	EntityAcademicPeriod     = "AcademicPeriod"
	EntitySemester           = "Semester"
	EntityClassroom          = "Classroom"
	EntityTimeSlot           = "TimeSlot"
	EntityFieldOfStudy       = "FieldOfStudy"
	EntityCourse             = "Course"
	EntityProfessor          = "Professor"
	EntityCourseAssignment   = "CourseAssignment"
	EntityClassSession       = "ClassSession"
	EntityStudent            = "Student"
	EntityUserProfile        = "UserProfile"
	EntityViolation          = "Violation"
	EntityStudentEnrollment  = "StudentEnrollment"
	EntityAssessment         = "Assessment"
	EntityStudentResult      = "StudentResult"
	EntityAchievement        = "Achievement"
	EntityStudentAchievement = "StudentAchievement"
	EntityNotification       = "Notification"
	EntityEvent              = "Event"
	EntityEventParticipant   = "EventParticipant"
)

// TableRef 实体对应的表与主键列
type TableRef struct {
	Table      string
	PrimaryKey string
}

var tableRefs = map[string]TableRef{
	EntityAcademicPeriod:     {"academic_periods", "period_id"},
	EntitySemester:           {"semesters", "semester_id"},
	EntityClassroom:          {"classrooms", "classroom_id"},
	EntityTimeSlot:           {"time_slots", "time_slot_id"},
	EntityFieldOfStudy:       {"fields_of_study", "field_id"},
	EntityCourse:             {"courses", "course_id"},
	EntityProfessor:          {"professors", "professor_id"},
	EntityCourseAssignment:   {"course_assignments", "assignment_id"},
	EntityClassSession:       {"class_sessions", "session_id"},
	EntityStudent:            {"students", "student_id"},
	EntityUserProfile:        {"user_profiles", "profile_id"},
	EntityViolation:          {"violations", "violation_id"},
	EntityStudentEnrollment:  {"student_enrollments", "enrollment_id"},
	EntityAssessment:         {"assessments", "assessment_id"},
	EntityStudentResult:      {"student_results", "result_id"},
	EntityAchievement:        {"achievements", "achievement_id"},
	EntityStudentAchievement: {"student_achievements", "student_achievement_id"},
	EntityNotification:       {"notifications", "notification_id"},
	EntityEvent:              {"events", "event_id"},
	EntityEventParticipant:   {"event_participants", "participant_id"},
}

// LookupTable 按实体名查找表信息
func LookupTable(entity string) (TableRef, bool) {
	ref, ok := tableRefs[entity]
	return ref, ok
}

// [自证通过] internal/model/entity.go
