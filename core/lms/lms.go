// Package lms describes the learning-management account service the planner reads from.
package lms

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrInvalidToken = errors.New("invalid access token")
	ErrNotFound     = errors.New("resource does not exist")
)

const (
	EnrollmentStudent = "student"
	EnrollmentTeacher = "teacher"
)

type (
	User struct {
		ID        int64
		Name      string
		Email     string
		AvatarURL string
	}

	Course struct {
		ID         int64
		Name       string
		CourseCode string
		TermName   string // empty when the course has no term
	}

	Enrollment struct {
		Type         string // EnrollmentStudent, EnrollmentTeacher, ...
		UserName     string
		CurrentScore *float64
	}

	Assignment struct {
		ID              int64
		CourseID        int64
		Name            string
		Description     string // markup
		DueAt           string // ISO-8601, empty when the assignment has no due date
		PointsPossible  float64
		SubmissionTypes []string
	}

	Submission struct {
		SubmittedAt *time.Time
		Grade       string
	}

	// Client is an authenticated handle on one account.
	Client interface {
		CurrentUser(ctx context.Context) (User, error)
		ActiveCourses(ctx context.Context) ([]Course, error)
		CourseEnrollments(ctx context.Context, courseID int64) ([]Enrollment, error)
		CourseAssignments(ctx context.Context, courseID int64) ([]Assignment, error)
		Submission(ctx context.Context, courseID, assignmentID, userID int64) (Submission, error)
	}

	// Connector creates account handles. It does not talk to the service.
	Connector interface {
		Connect(baseURL, apiKey string) Client
	}
)

// Submitted tells whether the submission was handed in.
func (s Submission) Submitted() bool {
	return s.SubmittedAt != nil && !s.SubmittedAt.IsZero()
}

// Graded tells whether the submission received a grade.
func (s Submission) Graded() bool {
	return s.Grade != ""
}
