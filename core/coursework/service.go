package coursework

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/lms"
	"github.com/trezcool/studyplanner/core/text"
)

type (
	Service struct {
		logger core.Logger
	}

	// Workload is what an account has to do within a window.
	// Assignments keep the upstream enumeration order: courses first, then assignments within each course.
	Workload struct {
		Window      Window
		Courses     []lms.Course
		Assignments []Assignment
		Skipped     int // items dropped because they could not be read
	}

	// statusLookup resolves the submission of one assignment; nil skips status derivation.
	statusLookup func(ctx context.Context, a lms.Assignment) (lms.Submission, error)
)

func NewService(logger core.Logger) *Service {
	return &Service{logger: logger}
}

// Courses projects the account's active courses.
// A course whose enrollments cannot be read keeps an empty instructor and no grade.
func (svc *Service) Courses(ctx context.Context, acct lms.Client) ([]Enrollment, error) {
	courses, err := acct.ActiveCourses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing active courses")
	}

	enrollments := make([]Enrollment, 0, len(courses))
	for _, c := range courses {
		e := Enrollment{
			ID:         strconv.FormatInt(c.ID, 10),
			Name:       c.Name,
			CourseCode: c.CourseCode,
			Term:       c.TermName,
			Color:      Color(c.Name),
			Credits:    defaultCredits,
			Schedule:   []ScheduleSlot{},
		}
		if e.Term == "" {
			e.Term = defaultTerm
		}

		members, err := acct.CourseEnrollments(ctx, c.ID)
		if err != nil {
			svc.logger.Warn("skipping enrollments of course "+e.ID, errors.Wrap(err, "listing course enrollments"))
		}
		for _, m := range members {
			switch m.Type {
			case lms.EnrollmentStudent:
				if m.CurrentScore != nil {
					e.Grade = m.CurrentScore
				}
			case lms.EnrollmentTeacher:
				e.Instructor = m.UserName
				if e.Instructor == "" {
					e.Instructor = defaultInstructor
				}
			}
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

// Assignments lists every dated assignment of the active courses along with its submission status.
func (svc *Service) Assignments(ctx context.Context, acct lms.Client, userID int64) ([]Assignment, error) {
	courses, err := acct.ActiveCourses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing active courses")
	}
	lookup := func(ctx context.Context, a lms.Assignment) (lms.Submission, error) {
		return acct.Submission(ctx, a.CourseID, a.ID, userID)
	}
	red := svc.collect(ctx, acct, courses, Window{}, lookup)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	return red.assignments, nil
}

// Workload collects the active courses and the assignments due within w.
func (svc *Service) Workload(ctx context.Context, acct lms.Client, w Window) (Workload, error) {
	courses, err := acct.ActiveCourses(ctx)
	if err != nil {
		return Workload{}, errors.Wrap(err, "listing active courses")
	}
	red := svc.collect(ctx, acct, courses, w, nil)
	if err = ctx.Err(); err != nil {
		return Workload{}, err
	}
	return Workload{
		Window:      w,
		Courses:     courses,
		Assignments: red.assignments,
		Skipped:     red.skipped,
	}, nil
}

func (svc *Service) collect(ctx context.Context, acct lms.Client, courses []lms.Course, w Window, lookup statusLookup) reduction {
	now := core.NowFunc()
	var results []itemResult
	for _, c := range courses {
		items, err := acct.CourseAssignments(ctx, c.ID)
		if err != nil {
			results = append(results, itemResult{err: errors.Wrapf(err, "listing assignments of course %d", c.ID)})
			continue
		}
		for _, a := range items {
			if a.CourseID == 0 {
				a.CourseID = c.ID
			}
			results = append(results, project(ctx, c, a, w, now, lookup))
		}
	}

	red := reduce(results)
	for _, err := range red.errs {
		svc.logger.Warn("aggregation: item skipped", err)
	}
	for _, err := range red.lookupErrs {
		svc.logger.Debug("aggregation: submission unavailable", err)
	}
	return red
}

// project turns one upstream assignment into a record, or excludes it.
func project(ctx context.Context, c lms.Course, a lms.Assignment, w Window, now time.Time, lookup statusLookup) itemResult {
	if a.DueAt == "" {
		return itemResult{excluded: true} // cannot be scheduled
	}
	due, err := time.Parse(time.RFC3339, a.DueAt)
	if err != nil {
		return itemResult{err: errors.Wrapf(err, "parsing due date of assignment %d", a.ID)}
	}
	if !w.Contains(due) {
		return itemResult{excluded: true}
	}

	rec := Assignment{
		ID:             strconv.FormatInt(a.ID, 10),
		CourseID:       strconv.FormatInt(c.ID, 10),
		CourseName:     c.Name,
		CourseColor:    Color(c.Name),
		Title:          a.Name,
		Description:    text.Sanitize(a.Description),
		DueDate:        due,
		Points:         a.PointsPossible,
		SubmissionType: noSubmissionType,
	}
	if len(a.SubmissionTypes) > 0 {
		rec.SubmissionType = a.SubmissionTypes[0]
	}
	if lookup == nil {
		return itemResult{assignment: rec}
	}

	sub, err := lookup(ctx, a)
	if err != nil {
		rec.Status = deriveStatus(due, now, nil)
		return itemResult{assignment: rec, lookupErr: errors.Wrapf(err, "fetching submission of assignment %d", a.ID)}
	}
	rec.Status = deriveStatus(due, now, &sub)
	return itemResult{assignment: rec}
}

// deriveStatus starts from the due date and lets the submission, when known, override it.
func deriveStatus(due, now time.Time, sub *lms.Submission) Status {
	status := StatusPast
	if !due.Before(now) {
		status = StatusUpcoming
	}
	if sub == nil {
		return status
	}
	switch {
	case sub.Graded():
		return StatusGraded
	case sub.Submitted():
		return StatusSubmitted
	}
	return status
}
