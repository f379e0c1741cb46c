package coursework

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

type Status string

const (
	StatusPast      Status = "past"
	StatusUpcoming  Status = "upcoming"
	StatusSubmitted Status = "submitted"
	StatusGraded    Status = "graded"

	defaultTerm       = "Current Term"
	defaultInstructor = "Instructor"
	defaultCredits    = 3
	noSubmissionType  = "none"
)

type (
	// Enrollment is the caller-facing view of one active course.
	Enrollment struct {
		ID         string         `json:"id"`
		Name       string         `json:"name"`
		CourseCode string         `json:"courseCode"`
		Term       string         `json:"term"`
		Instructor string         `json:"instructor"`
		Color      string         `json:"color"`
		Grade      *float64       `json:"grade"`
		Credits    int            `json:"credits"`
		Schedule   []ScheduleSlot `json:"schedule"`
	}

	ScheduleSlot struct {
		Day       string `json:"day"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Location  string `json:"location"`
	}

	// Assignment is a dated assignment of an active course, with its description cleaned up.
	// Status is only set by Service.Assignments.
	Assignment struct {
		ID             string    `json:"id"`
		CourseID       string    `json:"courseId"`
		CourseName     string    `json:"courseName"`
		CourseColor    string    `json:"courseColor"`
		Title          string    `json:"title"`
		Description    string    `json:"description"`
		DueDate        time.Time `json:"dueDate"`
		Points         float64   `json:"points"`
		SubmissionType string    `json:"submissionType"`
		Status         Status    `json:"status,omitempty"`
	}
)

// Color derives a stable "#rrggbb" tag from a course name.
func Color(courseName string) string {
	return fmt.Sprintf("#%06x", xxhash.Sum64String(courseName)%0xFFFFFF)
}
