package studyplan

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type (
	StudyPlan struct {
		ID          string      `json:"id"`
		GeneratedAt time.Time   `json:"generatedAt"`
		WeekStart   string      `json:"weekStart"`
		WeekEnd     string      `json:"weekEnd"`
		DailyPlans  []DailyPlan `json:"dailyPlans"`
		Tips        []string    `json:"tips"`
	}

	DailyPlan struct {
		Date       string `json:"date"`
		DayName    string `json:"dayName"`
		Tasks      []Task `json:"tasks"`
		TotalHours Hours  `json:"totalHours"`
	}

	Task struct {
		Time     string   `json:"time,omitempty"`
		Duration Hours    `json:"duration"`
		Subject  string   `json:"subject"`
		Task     string   `json:"task"`
		Priority Priority `json:"priority"`
	}

	// Hours is a number of hours. It also decodes from a numeric string such as "1.5".
	Hours float64
)

func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "h"))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "hours %q", s)
		}
		*h = Hours(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*h = Hours(f)
	return nil
}
