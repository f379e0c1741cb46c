package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/lms"
	"github.com/trezcool/studyplanner/core/studyplan"
	"github.com/trezcool/studyplanner/tests"
)

const goodKey = "good-key"

var now = time.Date(2024, 3, 3, 18, 0, 0, 0, time.UTC)

type fixture struct {
	cli    *commandLine
	out    *bytes.Buffer
	canvas *testutil.CanvasMock
	gen    *testutil.GeneratorMock
}

func setup(t *testing.T) *fixture {
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })
	t.Setenv("CANVAS_URL", "https://school.instructure.com")
	t.Setenv(apiKeyEnv, goodKey)

	logger := testutil.NewLogger(t)
	f := &fixture{
		out: &bytes.Buffer{},
		canvas: &testutil.CanvasMock{
			User:    lms.User{ID: 7, Name: "Grace Hopper"},
			Courses: []lms.Course{{ID: 1, Name: "Biology 101", CourseCode: "BIO101", TermName: "Spring 2024"}},
			Assignments: map[int64][]lms.Assignment{
				1: {
					{ID: 11, CourseID: 1, Name: "Lab report", DueAt: "2024-03-05T10:00:00Z", PointsPossible: 20, SubmissionTypes: []string{"online_upload"}},
					{ID: 12, CourseID: 1, Name: "Reading guide", DueAt: "2024-03-12T10:00:00Z", PointsPossible: 10},
				},
			},
		},
		gen: &testutil.GeneratorMock{},
	}
	cw := coursework.NewService(logger)
	f.cli = &commandLine{
		connector:  &testutil.CanvasConnectorMock{Clients: map[string]*testutil.CanvasMock{goodKey: f.canvas}},
		coursework: cw,
		plans:      studyplan.NewService(cw, f.gen, logger, time.Minute),
		out:        f.out,
	}

	readPassword := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return nil, nil }
	t.Cleanup(func() { readPasswordFunc = readPassword })
	return f
}

type cliTest struct {
	name       string
	args       []string // without program name
	env        map[string]string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"courses", "-h"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"plan", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "no canvas url", args: []string{"courses"}, env: map[string]string{"CANVAS_URL": " "}, wantErr: errHelp},
		{name: "no api key", args: []string{"assignments"}, env: map[string]string{apiKeyEnv: ""}, wantErr: errHelp},
		{name: "invalid api key", args: []string{"courses"}, env: map[string]string{apiKeyEnv: "nope"}, wantErr: errInvalidKey},
		{name: "bad window", args: []string{"plan", "-start", "2024-03-10", "-end", "2024-03-04"}, wantErrStr: "endDate must not be before startDate"},
		{name: "bad start", args: []string{"plan", "-start", "next monday"}, wantErrStr: "invalid ISO-8601 timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := f.cli.run(context.Background(), append([]string{"planner"}, tt.args...))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.Contains(t, err.Error(), tt.wantErrStr)
			}
			assert.Empty(t, f.out.String())
			assert.Empty(t, f.gen.Prompts)
		})
	}
}

func Test_commandLine_courses(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.cli.run(context.Background(), []string{"planner", "courses", "-url", "https://other.instructure.com/"}))

	var courses []coursework.Enrollment
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "1", courses[0].ID)
	assert.Equal(t, "Biology 101", courses[0].Name)
	assert.Equal(t, "Spring 2024", courses[0].Term)
}

func Test_commandLine_assignments(t *testing.T) {
	f := setup(t)
	t.Setenv(apiKeyEnv, "")
	readPasswordFunc = func(int) ([]byte, error) { return []byte(goodKey + "\n"), nil }

	require.NoError(t, f.cli.run(context.Background(), []string{"planner", "assignments"}))

	var assignments []coursework.Assignment
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &assignments))
	require.Len(t, assignments, 2)
	assert.Equal(t, "Lab report", assignments[0].Title)
	assert.Equal(t, "Reading guide", assignments[1].Title)

	f.out.Reset()
	readPasswordFunc = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	assert.EqualError(t, f.cli.run(context.Background(), []string{"planner", "assignments"}), "not a terminal")
	assert.Empty(t, f.out.String())
}

func Test_commandLine_plan(t *testing.T) {
	f := setup(t)
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	f.gen.Reply = testutil.FencedReply(testutil.PlanJSON(t, start, 7))

	require.NoError(t, f.cli.run(context.Background(), []string{"planner", "plan", "-start", "2024-03-04", "-end", "2024-03-10T23:59:59"}))

	var plan studyplan.StudyPlan
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &plan))
	assert.Equal(t, "2024-03-04", plan.WeekStart)
	assert.Len(t, plan.DailyPlans, 7)

	prompt := f.gen.LastPrompt()
	assert.Contains(t, prompt, "[Biology 101] Lab report")
	assert.NotContains(t, prompt, "Reading guide")

	// upstream failures surface as is
	f.out.Reset()
	f.gen.Err = errors.New("quota exceeded")
	err := f.cli.run(context.Background(), []string{"planner", "plan"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, f.out.String())
}
