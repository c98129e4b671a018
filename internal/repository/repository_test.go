package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Teacher{},
		&models.Student{},
		&models.Course{},
		&models.CourseTemplate{},
		&models.Session{},
		&models.Enrollment{},
		&models.Submission{},
	))

	return db
}

func seedCourse(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&models.Teacher{TeacherID: "t-1", Name: "Prof", Email: "prof@example.com"}).Error)
	require.NoError(t, db.Create(&models.Course{CourseID: "c-1", TeacherID: "t-1", Title: "Systems Programming"}).Error)
	require.NoError(t, db.Create(&models.Student{StudentID: "s-1", Name: "Student One"}).Error)
	require.NoError(t, db.Create(&models.Session{
		SessionID: "sess-1", CourseID: "c-1", SessionNumber: 1,
		Title: "Week 1", Deadline: time.Now().Add(24 * time.Hour),
	}).Error)
}

func TestSubmissionLatestBySessionAndStudent(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	older := models.Submission{
		SessionID: "sess-1", StudentID: "s-1",
		Status: models.SubmissionStatusRejected, SubmittedAt: time.Now().Add(-time.Hour),
	}
	newer := models.Submission{
		SessionID: "sess-1", StudentID: "s-1",
		Status: models.SubmissionStatusPending, SubmittedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))

	latest, err := repo.LatestBySessionAndStudent(ctx, "sess-1", "s-1")
	require.NoError(t, err)
	require.Equal(t, newer.ID, latest.ID)
	require.Equal(t, models.SubmissionStatusPending, latest.Status)

	// Preloads resolve the session and its course.
	require.Equal(t, "c-1", latest.Session.CourseID)
	require.Equal(t, "Systems Programming", latest.Session.Course.Title)

	_, err = repo.LatestBySessionAndStudent(ctx, "sess-1", "s-404")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionUpdateGradeResult(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	submission := models.Submission{
		SessionID: "sess-1", StudentID: "s-1",
		Status: models.SubmissionStatusPending, SubmittedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, &submission))

	require.NoError(t, repo.UpdateGradeResult(ctx, submission.ID, map[string]interface{}{
		"score":           88,
		"status":          models.SubmissionStatusAIGraded,
		"ai_feedback":     []byte(`{"summary":"good"}`),
		"executed_prompt": "the prompt",
	}))

	stored, err := repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusAIGraded, stored.Status)
	require.Equal(t, 88, *stored.Score)
	require.Equal(t, "the prompt", stored.ExecutedPrompt)
	require.Contains(t, string(stored.AIFeedback), "good")
}

func TestEnrollmentUpsertManyKeepsExistingRows(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertMany(ctx, []models.Enrollment{
		{CourseID: "c-1", StudentID: "s-1", Status: models.EnrollmentStatusActive},
	}))
	require.NoError(t, repo.UpdateStatus(ctx, "c-1", "s-1", models.EnrollmentStatusDropped))

	// Re-importing the roster must not flip the dropped student back.
	require.NoError(t, repo.UpsertMany(ctx, []models.Enrollment{
		{CourseID: "c-1", StudentID: "s-1", Status: models.EnrollmentStatusActive},
	}))

	enrollment, err := repo.Get(ctx, "c-1", "s-1")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusDropped, enrollment.Status)
}

func TestEnrollmentListActivePreloadsStudents(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)
	require.NoError(t, db.Create(&models.Student{StudentID: "s-2", Name: "Student Two"}).Error)

	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertMany(ctx, []models.Enrollment{
		{CourseID: "c-1", StudentID: "s-1", Status: models.EnrollmentStatusActive},
		{CourseID: "c-1", StudentID: "s-2", Status: models.EnrollmentStatusDropped},
	}))

	active, err := repo.ListActiveByCourse(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "s-1", active[0].StudentID)
	require.Equal(t, "Student One", active[0].Student.Name)
}

func TestSessionListByCourseOrders(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)
	require.NoError(t, db.Create(&models.Session{
		SessionID: "sess-3", CourseID: "c-1", SessionNumber: 3,
		Title: "Week 3", Deadline: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.Session{
		SessionID: "sess-2", CourseID: "c-1", SessionNumber: 2,
		Title: "Week 2", Deadline: time.Now(),
	}).Error)

	repo := NewSessionRepository(db)
	sessions, err := repo.ListByCourse(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.Equal(t, []int{1, 2, 3}, []int{
		sessions[0].SessionNumber, sessions[1].SessionNumber, sessions[2].SessionNumber,
	})
}

func TestCourseTemplateMatchForTitle(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)
	require.NoError(t, db.Create(&models.CourseTemplate{
		TeacherID: "t-1", Keyword: "Programming", SystemPrompt: "grade as a systems professor",
	}).Error)
	require.NoError(t, db.Create(&models.CourseTemplate{
		TeacherID: "t-1", Keyword: "Poetry", SystemPrompt: "grade as a literature professor",
	}).Error)

	repo := NewCourseTemplateRepository(db)
	ctx := context.Background()

	match, err := repo.MatchForTitle(ctx, "t-1", "Advanced Programming Lab")
	require.NoError(t, err)
	require.NotNil(t, match)
	require.Equal(t, "grade as a systems professor", match.SystemPrompt)

	match, err = repo.MatchForTitle(ctx, "t-1", "Linear Algebra")
	require.NoError(t, err)
	require.Nil(t, match)

	match, err = repo.MatchForTitle(ctx, "t-2", "Advanced Programming Lab")
	require.NoError(t, err)
	require.Nil(t, match)
}

func TestStudentClearEmail(t *testing.T) {
	db := newTestDB(t)
	email := "one@example.com"
	require.NoError(t, db.Create(&models.Student{StudentID: "s-1", Name: "Student One", Email: &email}).Error)

	repo := NewStudentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ClearEmail(ctx, "s-1"))

	stored, err := repo.GetByID(ctx, "s-1")
	require.NoError(t, err)
	require.Nil(t, stored.Email)
}

func TestTeacherExists(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db)

	repo := NewTeacherRepository(db)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "t-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Exists(ctx, "t-404")
	require.NoError(t, err)
	require.False(t, ok)
}
