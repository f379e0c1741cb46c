package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/lms"
)

// Logger

type testLogger struct {
	t *testing.T
}

var _ core.Logger = (*testLogger)(nil)

// NewLogger returns a core.Logger writing to the test log.
func NewLogger(t *testing.T) core.Logger {
	return &testLogger{t: t}
}

func (l testLogger) log(level, msg string, args []interface{}) {
	l.t.Helper()
	if len(args) > 0 {
		l.t.Logf("%s: %s %+v", level, msg, args)
		return
	}
	l.t.Logf("%s: %s", level, msg)
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) {
	l.log("FATAL", msg, args)
	l.t.FailNow()
}

// Canvas

// CanvasMock is a fixture-driven lms.Client. Per-item errors are keyed by course or assignment ID.
type CanvasMock struct {
	User        lms.User
	Courses     []lms.Course
	Enrollments map[int64][]lms.Enrollment // by course ID
	Assignments map[int64][]lms.Assignment // by course ID
	Submissions map[int64]lms.Submission   // by assignment ID

	UserErr        error
	CoursesErr     error
	EnrollmentErrs map[int64]error // by course ID
	AssignmentErrs map[int64]error // by course ID
	SubmissionErrs map[int64]error // by assignment ID
}

var _ lms.Client = (*CanvasMock)(nil)

func (m *CanvasMock) CurrentUser(context.Context) (lms.User, error) {
	if m.UserErr != nil {
		return lms.User{}, m.UserErr
	}
	return m.User, nil
}

func (m *CanvasMock) ActiveCourses(context.Context) ([]lms.Course, error) {
	if m.CoursesErr != nil {
		return nil, m.CoursesErr
	}
	return m.Courses, nil
}

func (m *CanvasMock) CourseEnrollments(_ context.Context, courseID int64) ([]lms.Enrollment, error) {
	if err := m.EnrollmentErrs[courseID]; err != nil {
		return nil, err
	}
	return m.Enrollments[courseID], nil
}

func (m *CanvasMock) CourseAssignments(_ context.Context, courseID int64) ([]lms.Assignment, error) {
	if err := m.AssignmentErrs[courseID]; err != nil {
		return nil, err
	}
	return m.Assignments[courseID], nil
}

func (m *CanvasMock) Submission(_ context.Context, _, assignmentID, _ int64) (lms.Submission, error) {
	if err := m.SubmissionErrs[assignmentID]; err != nil {
		return lms.Submission{}, err
	}
	if sub, ok := m.Submissions[assignmentID]; ok {
		return sub, nil
	}
	return lms.Submission{}, nil
}

// CanvasConnectorMock hands out clients by API key. Unknown keys get a client rejecting the token.
type CanvasConnectorMock struct {
	Clients map[string]*CanvasMock
}

var _ lms.Connector = (*CanvasConnectorMock)(nil)

func (c *CanvasConnectorMock) Connect(_, apiKey string) lms.Client {
	if cl, ok := c.Clients[apiKey]; ok {
		return cl
	}
	return &CanvasMock{UserErr: lms.ErrInvalidToken}
}

// Generation

// GeneratorMock replies with Reply (or Err) and records the prompts it was given.
type GeneratorMock struct {
	Reply string
	Err   error

	mu      sync.Mutex
	Prompts []string
}

var (
	_ core.TextGenerator = (*GeneratorMock)(nil)
	_ core.Conversation  = (*GeneratorMock)(nil)
)

func (g *GeneratorMock) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.Prompts = append(g.Prompts, prompt)
	g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

func (g *GeneratorMock) Send(ctx context.Context, message string) (string, error) {
	return g.Generate(ctx, message)
}

// LastPrompt returns the most recent prompt, or "".
func (g *GeneratorMock) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Prompts) == 0 {
		return ""
	}
	return g.Prompts[len(g.Prompts)-1]
}

// PlanJSON builds a well-formed plan payload covering `days` days from start.
func PlanJSON(t *testing.T, start time.Time, days int) string {
	t.Helper()
	type task struct {
		Duration float64 `json:"duration"`
		Subject  string  `json:"subject"`
		Task     string  `json:"task"`
		Priority string  `json:"priority"`
	}
	type day struct {
		Date       string  `json:"date"`
		DayName    string  `json:"dayName"`
		Tasks      []task  `json:"tasks"`
		TotalHours float64 `json:"totalHours"`
	}
	plan := struct {
		WeekStart  string   `json:"weekStart"`
		WeekEnd    string   `json:"weekEnd"`
		DailyPlans []day    `json:"dailyPlans"`
		Tips       []string `json:"tips"`
	}{
		WeekStart: start.Format("2006-01-02"),
		WeekEnd:   start.AddDate(0, 0, days-1).Format("2006-01-02"),
		Tips:      []string{"tip1", "tip2", "tip3", "tip4", "tip5"},
	}
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		plan.DailyPlans = append(plan.DailyPlans, day{
			Date:       d.Format("2006-01-02"),
			DayName:    d.Weekday().String(),
			Tasks:      []task{{Duration: 1.5, Subject: "Biology", Task: fmt.Sprintf("Review notes (day %d)", i+1), Priority: "medium"}},
			TotalHours: 1.5,
		})
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		t.Fatalf("PlanJSON() failed: %v", err)
	}
	return string(data)
}

// FencedReply wraps payload in prose and a ```json fence, the way generation services usually answer.
func FencedReply(payload string) string {
	return "Here is your study plan:\n\n```json\n" + payload + "\n```\n\nGood luck!"
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
