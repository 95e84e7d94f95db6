package service

import (
	"context"

	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

// IsStaff reports whether the actor may perform faculty/admin mutations.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleFaculty || a.Role == models.RoleAdmin
}

// Policy decides permit/deny per role and computes the visible course scope.
// It is pure apart from reads; it never mutates state.
type Policy struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
}

// NewPolicy constructs the authorization policy.
func NewPolicy(courses repository.CourseRepository, enrollments repository.EnrollmentRepository) *Policy {
	return &Policy{courses: courses, enrollments: enrollments}
}

// VisibleCourses returns exactly the courses the actor may see: students see
// courses they are enrolled in, faculty the courses they own, admins all.
func (p *Policy) VisibleCourses(ctx context.Context, actor Actor) ([]models.Course, error) {
	switch actor.Role {
	case models.RoleStudent:
		enrollments, err := p.enrollments.ListByUser(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			ids = append(ids, e.CourseID)
		}
		return p.courses.ListByIDs(ctx, ids)
	case models.RoleFaculty:
		return p.courses.ListByFaculty(ctx, actor.ID)
	case models.RoleAdmin:
		return p.courses.List(ctx)
	default:
		return nil, ErrInsufficientRole
	}
}

// VisibleCourseIDs returns the id set of the actor's visible courses.
func (p *Policy) VisibleCourseIDs(ctx context.Context, actor Actor) ([]string, error) {
	courses, err := p.VisibleCourses(ctx, actor)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// AuthorizeCourseMutation permits course-scoped writes (assignments,
// announcements, messages) for admins on any course and for faculty on
// courses they own.
func (p *Policy) AuthorizeCourseMutation(actor Actor, course models.Course) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleFaculty:
		if course.FacultyID != actor.ID {
			return ErrNotOwner
		}
		return nil
	default:
		return ErrInsufficientRole
	}
}

// AuthorizeEnrollmentChange permits enroll/drop only for students acting on
// their own membership.
func (p *Policy) AuthorizeEnrollmentChange(actor Actor, userID string) error {
	if actor.Role != models.RoleStudent {
		return ErrInsufficientRole
	}
	if actor.ID != userID {
		return ErrNotOwner
	}
	return nil
}

// AuthorizeSubmission permits submission creation only for students enrolled
// in the assignment's course.
func (p *Policy) AuthorizeSubmission(ctx context.Context, actor Actor, courseID string) error {
	if actor.Role != models.RoleStudent {
		return ErrInsufficientRole
	}
	enrolled, err := p.enrollments.Exists(ctx, courseID, actor.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}

// AuthorizeUserManagement permits account creation and role changes for admins.
func (p *Policy) AuthorizeUserManagement(actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrInsufficientRole
	}
	return nil
}

// AuthorizeCalendarMutation gates institution-wide event creation to staff.
func (p *Policy) AuthorizeCalendarMutation(actor Actor) error {
	if !actor.IsStaff() {
		return ErrInsufficientRole
	}
	return nil
}
