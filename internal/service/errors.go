package service

import "errors"

// Stable failure kinds surfaced by the domain services. Handlers translate
// these into HTTP statuses; the presentation layer owns user-facing copy.
var (
	// ErrInvalidCredentials indicates the email/credential pair matched no account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email is already bound to an account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInsufficientRole indicates the actor's role does not permit the operation.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrNotOwner indicates a faculty actor targeting a course they do not own.
	ErrNotOwner = errors.New("not the course owner")
	// ErrNotEnrolled indicates a student acting on a course they are not enrolled in.
	ErrNotEnrolled = errors.New("not enrolled in course")
	// ErrCapacityExceeded indicates the course has no remaining seats.
	ErrCapacityExceeded = errors.New("course capacity exceeded")
	// ErrDuplicateEnrollment indicates the (course, user) pair already exists.
	ErrDuplicateEnrollment = errors.New("already enrolled")
	// ErrAlreadyGraded indicates the submission already carries a grade.
	ErrAlreadyGraded = errors.New("submission already graded")
	// ErrDanglingReference indicates a foreign key naming no existing record.
	ErrDanglingReference = errors.New("referenced record does not exist")
	// ErrPersistenceFailed wraps store failures surfaced to the caller.
	ErrPersistenceFailed = errors.New("persistence failure")
)
