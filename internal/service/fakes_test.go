package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/pkg/ai"
	"github.com/noah-isme/coursemaker-go-api/pkg/mailer"
)

const testVaultKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type fakeStudentRepo struct {
	students map[string]models.Student
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: map[string]models.Student{}}
	for _, s := range students {
		r.students[s.StudentID] = s
	}
	return r
}

func (r *fakeStudentRepo) GetByID(_ context.Context, studentID string) (models.Student, error) {
	s, ok := r.students[studentID]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.students[student.StudentID] = *student
	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	r.students[student.StudentID] = *student
	return nil
}

func (r *fakeStudentRepo) ClearEmail(_ context.Context, studentID string) error {
	s := r.students[studentID]
	s.Email = nil
	r.students[studentID] = s
	return nil
}

type fakeEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	upserted    []models.Enrollment
}

func enrollmentKey(courseID, studentID string) string {
	return courseID + "/" + studentID
}

func newFakeEnrollmentRepo(enrollments ...models.Enrollment) *fakeEnrollmentRepo {
	r := &fakeEnrollmentRepo{enrollments: map[string]models.Enrollment{}}
	for _, e := range enrollments {
		r.enrollments[enrollmentKey(e.CourseID, e.StudentID)] = e
	}
	return r
}

func (r *fakeEnrollmentRepo) Get(_ context.Context, courseID, studentID string) (models.Enrollment, error) {
	e, ok := r.enrollments[enrollmentKey(courseID, studentID)]
	if !ok {
		return models.Enrollment{}, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEnrollmentRepo) ListActiveByCourse(_ context.Context, courseID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range r.enrollments {
		if e.CourseID == courseID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) UpsertMany(_ context.Context, enrollments []models.Enrollment) error {
	for _, e := range enrollments {
		key := enrollmentKey(e.CourseID, e.StudentID)
		if _, exists := r.enrollments[key]; !exists {
			r.enrollments[key] = e
		}
	}
	r.upserted = append(r.upserted, enrollments...)
	return nil
}

func (r *fakeEnrollmentRepo) UpdateStatus(_ context.Context, courseID, studentID, status string) error {
	key := enrollmentKey(courseID, studentID)
	e := r.enrollments[key]
	e.Status = status
	r.enrollments[key] = e
	return nil
}

func (r *fakeEnrollmentRepo) SetLastEmailSentAt(_ context.Context, courseID, studentID string, sentAt time.Time) error {
	key := enrollmentKey(courseID, studentID)
	e := r.enrollments[key]
	e.LastEmailSentAt = &sentAt
	r.enrollments[key] = e
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]models.Session
}

func newFakeSessionRepo(sessions ...models.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: map[string]models.Session{}}
	for _, s := range sessions {
		r.sessions[s.SessionID] = s
	}
	return r
}

func (r *fakeSessionRepo) GetByID(_ context.Context, sessionID string) (models.Session, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) ListByCourse(_ context.Context, courseID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range r.sessions {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].SessionNumber < out[i].SessionNumber {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	nextID      uint
	submissions map[uint]models.Submission
	updates     map[uint]map[string]interface{}
}

func newFakeSubmissionRepo(submissions ...models.Submission) *fakeSubmissionRepo {
	r := &fakeSubmissionRepo{
		nextID:      1,
		submissions: map[uint]models.Submission{},
		updates:     map[uint]map[string]interface{}{},
	}
	for _, s := range submissions {
		r.submissions[s.ID] = s
		if s.ID >= r.nextID {
			r.nextID = s.ID + 1
		}
	}
	return r
}

func (r *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission.ID = r.nextID
	r.nextID++
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSubmissionRepo) LatestBySessionAndStudent(_ context.Context, sessionID, studentID string) (models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest models.Submission
	found := false
	for _, s := range r.submissions {
		if s.SessionID != sessionID || s.StudentID != studentID {
			continue
		}
		if !found || s.SubmittedAt.After(latest.SubmittedAt) {
			latest = s
			found = true
		}
	}
	if !found {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *fakeSubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) UpdateGradeResult(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["status"]; ok {
		s.Status = v.(string)
	}
	if v, ok := fields["score"]; ok {
		score := v.(int)
		s.Score = &score
	}
	if v, ok := fields["executed_prompt"]; ok {
		s.ExecutedPrompt = v.(string)
	}
	if v, ok := fields["teacher_comment"]; ok {
		s.TeacherComment = v.(string)
	}
	if v, ok := fields["ai_feedback"]; ok {
		s.AIFeedback = datatypes.JSON(v.([]byte))
	}
	r.submissions[id] = s
	r.updates[id] = fields
	return nil
}

type fakeCourseRepo struct {
	courses map[string]models.Course
	created []models.Course
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[string]models.Course{}}
	for _, c := range courses {
		r.courses[c.CourseID] = c
	}
	return r
}

func (r *fakeCourseRepo) GetByID(_ context.Context, courseID string) (models.Course, error) {
	c, ok := r.courses[courseID]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.courses[course.CourseID] = *course
	r.created = append(r.created, *course)
	return nil
}

type fakeTemplateRepo struct {
	template *models.CourseTemplate
}

func (r *fakeTemplateRepo) MatchForTitle(_ context.Context, _, _ string) (*models.CourseTemplate, error) {
	return r.template, nil
}

type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []uint
	err        error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, submissionID uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, submissionID)
	return nil
}

type fakeGrader struct {
	mu      sync.Mutex
	result  ai.GradeResult
	err     error
	calls   int
	prompts []string
}

func (g *fakeGrader) Grade(_ context.Context, prompt string) (ai.GradeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return ai.GradeResult{}, g.err
	}
	return g.result, nil
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[msg.ToEmail]; ok {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeStore struct {
	objects     map[string][]byte
	downloadErr error
	uploaded    map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, uploaded: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, key string, reader io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.uploaded[key] = data
	return key, nil
}

func (s *fakeStore) Download(_ context.Context, key string) ([]byte, error) {
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return data, nil
}

func strPtr(s string) *string { return &s }
