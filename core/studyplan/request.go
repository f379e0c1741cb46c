package studyplan

import (
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/lms"
)

// Request is everything a plan is generated from.
type Request struct {
	Window      coursework.Window
	CourseNames []string
	Assignments []coursework.Assignment // due within Window, in the order received
}

// BuildRequest assembles a Request. Course names are listed once each; assignments outside the window are dropped.
func BuildRequest(courses []lms.Course, assignments []coursework.Assignment, w coursework.Window) Request {
	req := Request{
		Window:      w,
		CourseNames: make([]string, 0, len(courses)),
		Assignments: make([]coursework.Assignment, 0, len(assignments)),
	}

	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		req.CourseNames = append(req.CourseNames, c.Name)
	}

	for _, a := range assignments {
		if w.Contains(a.DueDate) {
			req.Assignments = append(req.Assignments, a)
		}
	}
	return req
}
