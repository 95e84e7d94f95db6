package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// SeedService populates the demo baseline on an empty store: one account per
// role, two courses owned by the faculty user, one enrollment, one upcoming
// assignment, one announcement, calendar events and a weekly timetable.
type SeedService interface {
	SeedIfEmpty(ctx context.Context) (bool, error)
}

type seedService struct {
	db       *gorm.DB
	verifier CredentialVerifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSeedService constructs the seeding service.
func NewSeedService(db *gorm.DB, verifier CredentialVerifier, logger zerolog.Logger) SeedService {
	return &seedService{
		db:       db,
		verifier: verifier,
		logger:   logger.With().Str("component", "seed_service").Logger(),
		now:      time.Now,
	}
}

// SeedIfEmpty reports whether seeding ran. A store with any user is left alone.
func (s *seedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	users := repository.NewUserRepository(s.db)
	count, err := users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	password, err := s.verifier.Hash("pass")
	if err != nil {
		return false, err
	}

	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student := models.User{Name: "Alice Ahmed", Email: "alice@uni.edu", PasswordHash: password, Role: models.RoleStudent}
		faculty := models.User{Name: "Dr. Barun", Email: "barun@uni.edu", PasswordHash: password, Role: models.RoleFaculty}
		admin := models.User{Name: "Carol Admin", Email: "carol@uni.edu", PasswordHash: password, Role: models.RoleAdmin}
		for _, u := range []*models.User{&student, &faculty, &admin} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		intro := models.Course{Code: "CSE101", Title: "Intro to Programming", FacultyID: faculty.ID, Capacity: 60, Credits: 3}
		calculus := models.Course{Code: "MAT110", Title: "Calculus I", FacultyID: faculty.ID, Capacity: 80, Credits: 4}
		for _, c := range []*models.Course{&intro, &calculus} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&models.Enrollment{CourseID: intro.ID, UserID: student.ID}).Error; err != nil {
			return err
		}

		assignment := models.Assignment{
			CourseID:     intro.ID,
			Title:        "HW1: Variables & Loops",
			DueAt:        now.AddDate(0, 0, 7),
			Points:       100,
			Instructions: "Solve the attached problems.",
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		announcement := models.Announcement{CourseID: intro.ID, Title: "Welcome!", Body: "First lecture slides posted."}
		if err := tx.Create(&announcement).Error; err != nil {
			return err
		}

		calendar := repository.NewCalendarRepository(tx)

		events := []models.CalendarEvent{
			{Title: "Semester Starts", Date: now, Type: models.EventTypeAcademic},
			{Title: "Add/Drop Deadline", Date: now.AddDate(0, 0, 10), Type: models.EventTypeDeadline},
		}
		for i := range events {
			if err := calendar.CreateEvent(ctx, &events[i]); err != nil {
				return err
			}
		}

		slots := []models.TimetableSlot{
			{CourseID: intro.ID, Day: 0, Start: "09:00", End: "10:20", Room: "A-201"},
			{CourseID: intro.ID, Day: 2, Start: "09:00", End: "10:20", Room: "A-201"},
			{CourseID: calculus.ID, Day: 1, Start: "11:00", End: "12:20", Room: "B-105"},
		}
		for i := range slots {
			if err := calendar.CreateSlot(ctx, &slots[i]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info().Msg("demo baseline seeded")
	return true, nil
}
