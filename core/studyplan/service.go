package studyplan

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/lms"
)

type Service struct {
	coursework *coursework.Service
	generator  core.TextGenerator
	logger     core.Logger
	timeout    time.Duration
}

// NewService creates a plan Service. A zero timeout lets generation run as long as ctx allows.
func NewService(cw *coursework.Service, gen core.TextGenerator, logger core.Logger, timeout time.Duration) *Service {
	return &Service{
		coursework: cw,
		generator:  gen,
		logger:     logger,
		timeout:    timeout,
	}
}

// Generate builds a study plan for the account's workload within w.
// It makes a single generation attempt: a reply that cannot be parsed fails with a *PlanParseError.
func (svc *Service) Generate(ctx context.Context, acct lms.Client, w coursework.Window) (StudyPlan, error) {
	workload, err := svc.coursework.Workload(ctx, acct, w)
	if err != nil {
		return StudyPlan{}, errors.Wrap(err, "collecting workload")
	}
	if workload.Skipped > 0 {
		svc.logger.Warn("study plan: some assignments could not be read", map[string]interface{}{"skipped": workload.Skipped})
	}

	req := BuildRequest(workload.Courses, workload.Assignments, w)
	prompt, err := RenderPrompt(req)
	if err != nil {
		return StudyPlan{}, err
	}

	genCtx := ctx
	if svc.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}
	reply, err := svc.generator.Generate(genCtx, prompt)
	if err != nil {
		return StudyPlan{}, errors.Wrap(err, "generating study plan")
	}

	plan, err := ParseResponse(reply)
	if err != nil {
		svc.logger.Error("study plan: unparseable reply", err, map[string]interface{}{"reply": reply})
		return StudyPlan{}, err
	}
	if plan.WeekStart == "" {
		plan.WeekStart = w.Start.Format("2006-01-02")
	}
	if plan.WeekEnd == "" {
		plan.WeekEnd = w.End.Format("2006-01-02")
	}
	return plan, nil
}
