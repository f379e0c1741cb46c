package logsvc

import (
	"bytes"
	"context"
	"log"
	"strconv"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/lms"
)

func setup(t *testing.T) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})
	t.Cleanup(logger.Flush)
	return logger, &buf
}

func TestRollbarLogger_print(t *testing.T) {
	logger, buf := setup(t)

	logger.Warn("aggregation: item skipped", errors.New("forbidden"), lms.User{ID: 7, Name: "Ada"})
	assert.Equal(t, "WARN aggregation: item skipped\nforbidden\n", buf.String())

	buf.Reset()
	logger.Info("study plan: generated", map[string]interface{}{"days": 7})
	assert.Equal(t, "INFO study plan: generated\nmap[days:7]\n", buf.String())
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger, _ := setup(t)
	err := errors.New("boom")
	extras := map[string]interface{}{"reply": "nope"}

	args := logger.prepare("failed", []interface{}{err, lms.User{ID: 1, Name: "Ada", Email: "ada@example.com"}, extras, lms.User{ID: 2}})
	require.Len(t, args, 4)
	assert.Equal(t, []interface{}{"failed", err}, args[:2])
	assert.Equal(t, extras, args[3])

	ctx, ok := args[2].(context.Context)
	require.True(t, ok, "%T", args[2])
	person, ok := rollbar.PersonFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, &rollbar.Person{Id: "1", Username: "Ada", Email: "ada@example.com"}, person)

	// no user: no person context
	assert.Equal(t, []interface{}{"failed", err}, logger.prepare("failed", []interface{}{err}))
}

func TestRollbarLogger_prepare_concurrentUsers(t *testing.T) {
	logger, _ := setup(t)

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			args := logger.prepare("request failed", []interface{}{lms.User{ID: id}})
			person, ok := rollbar.PersonFromContext(args[1].(context.Context))
			if assert.True(t, ok) {
				assert.Equal(t, strconv.FormatInt(id, 10), person.Id)
			}
		}(i)
	}
	wg.Wait()
}
