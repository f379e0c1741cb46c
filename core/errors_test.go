package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUpstreamError(t *testing.T) {
	cause := errors.New("quota exceeded")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "with op", err: NewUpstreamError("generate study plan", cause), want: "Failed to generate study plan: quota exceeded"},
		{name: "wrapped cause", err: NewUpstreamError("fetch courses", errors.Wrap(cause, "listing active courses")), want: "Failed to fetch courses: quota exceeded"},
		{name: "no op", err: NewUpstreamError("", errors.Wrap(cause, "sending message")), want: "quota exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
			assert.True(t, errors.Is(tt.err, cause))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(errors.New("endDate must not be before startDate"))
	assert.EqualError(t, err, "endDate must not be before startDate")

	var verr *ValidationError
	assert.True(t, errors.As(errors.Wrap(err, "parsing window"), &verr))
	assert.Empty(t, verr.Fields)

	assert.Equal(t, "", ValidationError{}.Error())
}
