package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/notify"
	"github.com/sells-group/diligence-cli/internal/records"
)

// failedUpdateTimeout bounds the best-effort Failed write, which runs on a
// context detached from the run's own.
const failedUpdateTimeout = 30 * time.Second

// Researcher builds the research dossier for a company.
type Researcher interface {
	Research(ctx context.Context, c model.Company) (*model.Dossier, error)
}

// Analyzer classifies and scores a company from its dossier.
type Analyzer interface {
	Analyze(ctx context.Context, c model.Company, d *model.Dossier) (*model.Analysis, error)
}

// Composer writes the final report and its artifact.
type Composer interface {
	Compose(ctx context.Context, c model.Company, d *model.Dossier, an *model.Analysis) (*model.Report, error)
}

// Outcome is the terminal state of one run.
type Outcome struct {
	RunID  string
	Status model.DiligenceStatus
	Report *model.Report
	Err    error
}

// Pipeline runs research, analysis and report composition for one company
// at a time and mirrors progress onto the company's CRM record.
type Pipeline struct {
	researcher Researcher
	analyzer   Analyzer
	composer   Composer
	store      records.Store
	sink       notify.Sink
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the clock used for Last Updated stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline from its collaborators.
func New(
	researcher Researcher,
	analyzer Analyzer,
	composer Composer,
	store records.Store,
	sink notify.Sink,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		researcher: researcher,
		analyzer:   analyzer,
		composer:   composer,
		store:      store,
		sink:       sink,
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the full diligence sequence for a single company. It never
// panics and never returns an error to the caller: failures are recorded on
// the CRM record as Failed and reported through Outcome.Err.
func (p *Pipeline) Run(ctx context.Context, company model.Company) Outcome {
	runID := RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.String("company", company.Name),
		zap.String("external_id", company.ExternalID),
	)
	log.Info("pipeline: starting diligence")
	start := time.Now()

	report, err := p.execute(ctx, log, company)
	if err != nil {
		log.Error("pipeline: run failed",
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		p.markFailed(ctx, log, company)
		return Outcome{RunID: runID, Status: model.DiligenceFailed, Err: err}
	}

	log.Info("pipeline: diligence complete",
		zap.String("recommendation", string(report.InvestmentRecommendation)),
		zap.String("artifact", report.ArtifactPath),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	p.notify(ctx, log, report)

	return Outcome{RunID: runID, Status: model.DiligenceComplete, Report: report}
}

// execute runs the sequence up to and including the Complete update. A panic
// in any collaborator is converted into the returned error.
func (p *Pipeline) execute(ctx context.Context, log *zap.Logger, company model.Company) (report *model.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: recovered panic", zap.Any("panic", r), zap.Stack("stack"))
			report, err = nil, eris.Errorf("pipeline: panic: %v", r)
		}
	}()

	if err := p.setStatus(ctx, company, model.StatusUpdate{
		Stage:           model.StageInitialResearch,
		DiligenceStatus: model.DiligenceInProgress,
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark in progress")
	}

	var dossier *model.Dossier
	if err := trackPhase(log, "research", func() (err error) {
		dossier, err = p.researcher.Research(ctx, company)
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: research")
	}

	var analysis *model.Analysis
	if err := trackPhase(log, "analysis", func() (err error) {
		analysis, err = p.analyzer.Analyze(ctx, company, dossier)
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: analysis")
	}

	if err := trackPhase(log, "report", func() (err error) {
		report, err = p.composer.Compose(ctx, company, dossier, analysis)
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: report")
	}
	if report == nil {
		return nil, eris.New("pipeline: report: composer returned no report")
	}

	rec := report.InvestmentRecommendation
	if rec == "" {
		rec = model.RecommendationMonitor
	}
	if err := p.setStatus(ctx, company, model.StatusUpdate{
		Stage:            model.StagePartnerReview,
		DiligenceStatus:  model.DiligenceComplete,
		AIRecommendation: string(rec),
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark complete")
	}

	return report, nil
}

func (p *Pipeline) setStatus(ctx context.Context, company model.Company, u model.StatusUpdate) error {
	u.LastUpdated = p.now()
	_, err := p.store.Update(ctx, company.ExternalID, u.Fields())
	return err
}

// markFailed records the Failed transition. Its own errors and panics are
// logged and dropped.
func (p *Pipeline) markFailed(ctx context.Context, log *zap.Logger, company model.Company) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: panic while marking run failed", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failedUpdateTimeout)
	defer cancel()

	err := p.setStatus(ctx, company, model.StatusUpdate{
		Stage:            model.StageNewLead,
		DiligenceStatus:  model.DiligenceFailed,
		AIRecommendation: model.ErrorRecommendation,
	})
	if err != nil {
		log.Error("pipeline: failed to mark run failed", zap.Error(err))
	}
}

// notify sends the finished report. The record is already Complete, so a
// delivery failure is only logged.
func (p *Pipeline) notify(ctx context.Context, log *zap.Logger, report *model.Report) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: panic while sending report", zap.Any("panic", r))
		}
	}()

	if !p.sink.SendReport(ctx, report.CompanyName, report.ArtifactPath, report.ExecutiveSummary) {
		log.Warn("pipeline: report notification not delivered")
	}
}

// trackPhase runs fn and logs its duration and result.
func trackPhase(log *zap.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start).Milliseconds()

	if err != nil {
		log.Error("pipeline: phase failed",
			zap.String("stage", name),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return err
	}
	log.Info("pipeline: phase complete",
		zap.String("stage", name),
		zap.Int64("duration_ms", duration),
	)
	return nil
}

type runIDKey struct{}

// WithRunID attaches a pre-assigned run id to ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run id set by WithRunID, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("run %s: %s: %v", o.RunID, o.Status, o.Err)
	}
	return fmt.Sprintf("run %s: %s", o.RunID, o.Status)
}
