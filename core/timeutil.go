package core

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	isoLayouts = []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}

	errInvalidISOTime = errors.New("invalid ISO-8601 timestamp")
)

// ParseNaiveTime parses an ISO-8601 timestamp and drops its zone, keeping the wall clock.
// A trailing "Z" is ignored. The result is expressed in UTC.
func ParseNaiveTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Naive(t), nil
		}
	}
	return time.Time{}, errors.Wrapf(errInvalidISOTime, "parsing %q", s)
}

// Naive returns t's wall clock in UTC.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
