package studyplan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/text"
)

const rawExcerptLimit = 500

var fenceRegex = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\r?\n?(.*?)```")

type (
	// PlanParseError reports a generation reply that does not hold a study plan.
	PlanParseError struct {
		Raw    string // excerpt of the offending text
		Reason string
	}

	// ParseResult is either a decoded plan or the reason there is none.
	ParseResult struct {
		Plan StudyPlan
		Err  *PlanParseError
	}
)

func (err PlanParseError) Error() string {
	return "could not parse study plan: " + err.Reason
}

func (res ParseResult) Failed() bool {
	return res.Err != nil
}

// ParseResponse extracts the study plan from a generation reply and stamps it with a fresh ID and timestamp.
func ParseResponse(raw string) (StudyPlan, error) {
	res := Parse(raw)
	if res.Failed() {
		return StudyPlan{}, res.Err
	}
	plan := res.Plan
	plan.ID = "plan_" + uuid.New().String()
	plan.GeneratedAt = core.NowFunc().UTC()
	return plan, nil
}

// Parse runs both stages: pick the candidate text, then decode it.
func Parse(raw string) ParseResult {
	candidate := extractCandidate(raw)
	plan, err := decode(candidate)
	if err != nil {
		// prose around an unfenced object
		if obj, ok := outermostObject(candidate); ok && obj != candidate {
			if plan, objErr := decode(obj); objErr == nil {
				return ParseResult{Plan: plan}
			}
		}
		return ParseResult{Err: &PlanParseError{
			Raw:    text.Truncate(candidate, rawExcerptLimit),
			Reason: err.Error(),
		}}
	}
	return ParseResult{Plan: plan}
}

// extractCandidate returns the content of the first fenced block, or the whole text when there is none.
func extractCandidate(raw string) string {
	if m := fenceRegex.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

func outermostObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// decode reads the plan schema. dailyPlans and tips are required; anything else may be missing.
func decode(candidate string) (StudyPlan, error) {
	if candidate == "" {
		return StudyPlan{}, fmt.Errorf("empty reply")
	}

	var payload struct {
		WeekStart  string       `json:"weekStart"`
		WeekEnd    string       `json:"weekEnd"`
		DailyPlans *[]DailyPlan `json:"dailyPlans"`
		Tips       *[]string    `json:"tips"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return StudyPlan{}, err
	}
	if payload.DailyPlans == nil {
		return StudyPlan{}, fmt.Errorf("missing field %q", "dailyPlans")
	}
	if payload.Tips == nil {
		return StudyPlan{}, fmt.Errorf("missing field %q", "tips")
	}

	plan := StudyPlan{
		WeekStart:  payload.WeekStart,
		WeekEnd:    payload.WeekEnd,
		DailyPlans: *payload.DailyPlans,
		Tips:       *payload.Tips,
	}
	for i := range plan.DailyPlans {
		if plan.DailyPlans[i].Tasks == nil {
			plan.DailyPlans[i].Tasks = []Task{}
		}
	}
	return plan, nil
}
