package studyplan

import (
	_ "embed"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core/text"
)

const (
	// NoAssignments stands in for the assignment list when nothing is due in the window.
	NoAssignments = "No assignments due in this period"

	descriptionLimit   = 200
	descriptionMissing = "No description"
	dueLayout          = "January 02, 2006 at 03:04 PM"
)

var (
	//go:embed prompt.tmpl
	promptText string

	promptTmpl = template.Must(template.New("prompt").
			Option("missingkey=error").
			Funcs(template.FuncMap{
			"join":      strings.Join,
			"longDate":  func(t time.Time) string { return t.Format("January 02, 2006") },
			"shortDate": func(t time.Time) string { return t.Format("January 02") },
			"isoDate":   func(t time.Time) string { return t.Format("2006-01-02") },
		}).
		Parse(promptText))
)

type (
	promptData struct {
		Start         time.Time
		End           time.Time
		Days          int
		Courses       []string
		Assignments   []promptAssignment
		NoAssignments string
	}

	promptAssignment struct {
		Course         string
		Title          string
		Due            string
		Points         string
		SubmissionType string
		Description    string
	}
)

// RenderPrompt writes the generation prompt for req. The output depends on req only.
func RenderPrompt(req Request) (string, error) {
	data := promptData{
		Start:         req.Window.Start,
		End:           req.Window.End,
		Days:          req.Window.Days(),
		Courses:       req.CourseNames,
		Assignments:   make([]promptAssignment, 0, len(req.Assignments)),
		NoAssignments: NoAssignments,
	}
	for _, a := range req.Assignments {
		data.Assignments = append(data.Assignments, promptAssignment{
			Course:         a.CourseName,
			Title:          a.Title,
			Due:            a.DueDate.Format(dueLayout),
			Points:         strconv.FormatFloat(a.Points, 'f', -1, 64),
			SubmissionType: a.SubmissionType,
			Description:    text.Summarize(a.Description, descriptionLimit, descriptionMissing),
		})
	}

	var sb strings.Builder
	if err := promptTmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "rendering prompt")
	}
	return sb.String(), nil
}
