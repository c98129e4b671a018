package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
)

// CourseService creates courses owned by a teacher, applying course templates
// when no explicit grading persona is given.
type CourseService interface {
	Create(ctx context.Context, teacherID string, payload dto.CreateCourseRequest) (dto.CreateCourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	templates repository.CourseTemplateRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(
	courses repository.CourseRepository,
	templates repository.CourseTemplateRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:   courses,
		templates: templates,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, teacherID string, payload dto.CreateCourseRequest) (dto.CreateCourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CreateCourseResponse{}, err
	}

	course := models.Course{
		CourseID:     payload.CourseID,
		TeacherID:    teacherID,
		Title:        payload.Title,
		Year:         payload.Year,
		Term:         payload.Term,
		SystemPrompt: payload.SystemPrompt,
	}

	templateApplied := false
	if course.SystemPrompt == "" {
		template, err := s.templates.MatchForTitle(ctx, teacherID, payload.Title)
		if err != nil {
			return dto.CreateCourseResponse{}, err
		}
		if template != nil {
			course.SystemPrompt = template.SystemPrompt
			templateApplied = true
		}
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CreateCourseResponse{}, err
	}

	s.logger.Info().
		Str("course_id", course.CourseID).
		Str("teacher_id", teacherID).
		Bool("template_applied", templateApplied).
		Msg("course created")

	return dto.CreateCourseResponse{
		CourseID:        course.CourseID,
		Title:           course.Title,
		TemplateApplied: templateApplied,
	}, nil
}
