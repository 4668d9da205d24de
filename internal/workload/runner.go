package workload

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/recordstore/internal/catalog"
	"github.com/Sumatoshi-tech/recordstore/pkg/observability"
)

const (
	spanRun  = "workload.run"
	spanStep = "workload.step"

	valueEpsilon = 1e-9
)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner logger. It is also handed to the company.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracer sets the tracer used for run and step spans.
func WithTracer(t trace.Tracer) RunnerOption {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithMetrics records one RED sample per step.
func WithMetrics(m *observability.REDMetrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithCompanyOptions passes options to every company the runner creates.
func WithCompanyOptions(opts ...catalog.Option) RunnerOption {
	return func(r *Runner) {
		r.companyOpts = append(r.companyOpts, opts...)
	}
}

// Runner executes scenarios.
type Runner struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.REDMetrics
	companyOpts []catalog.Option
}

// NewRunner creates a runner with no-op tracing and no metrics by default.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.Default(),
		tracer: nooptrace.NewTracerProvider().Tracer("workload"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// outcome is what a step produced.
type outcome struct {
	err    error
	value  *float64
	member *bool
	column *int
	height *int
}

// Run executes every step of sc against a fresh company. It stops early
// and returns the partial report with ctx's error when ctx is done.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	runID := uuid.NewString()

	ctx, span := r.tracer.Start(ctx, spanRun, trace.WithAttributes(
		attribute.String("workload.run_id", runID),
		attribute.String("workload.name", sc.Name),
		attribute.Int("workload.steps", len(sc.Steps)),
	))
	defer span.End()

	company := catalog.New(append([]catalog.Option{catalog.WithLogger(r.logger)}, r.companyOpts...)...)
	report := &Report{RunID: runID, Name: sc.Name, Steps: make([]StepResult, 0, len(sc.Steps))}

	for i, step := range sc.Steps {
		err := ctx.Err()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())

			return report, fmt.Errorf("run %q stopped at step %d: %w", sc.Name, i, err)
		}

		report.Steps = append(report.Steps, r.runStep(ctx, company, i, step))
	}

	company.Members(func(id int, expenses float64) bool {
		report.Members = append(report.Members, MemberExpense{ID: id, Expenses: expenses})

		return true
	})

	report.Customers = company.Customers()
	report.Records = company.Records()

	failed := report.FailedCount()
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d expectations failed", failed))
	}

	r.logger.InfoContext(ctx, "scenario finished",
		slog.String("run_id", runID),
		slog.String("scenario", sc.Name),
		slog.Int("steps", len(report.Steps)),
		slog.Int("failed", failed))

	return report, nil
}

func (r *Runner) runStep(ctx context.Context, company *catalog.Company, index int, step Step) StepResult {
	ctx, span := r.tracer.Start(ctx, spanStep, trace.WithAttributes(
		attribute.Int("workload.step", index),
		attribute.String("catalog.op", step.Op),
	))
	defer span.End()

	if r.metrics != nil {
		defer r.metrics.TrackInflight(ctx, step.Op)()
	}

	start := time.Now()
	out := apply(company, step)
	elapsed := time.Since(start)

	res := StepResult{
		Index:    index,
		Op:       step.Op,
		Status:   catalog.StatusOf(out.err),
		Value:    out.display(),
		Duration: elapsed,
		Passed:   true,
	}

	if out.err != nil {
		res.Detail = out.err.Error()
	}

	if step.Expect != nil {
		res.Checked = true
		res.Expected = step.Expect.display()
		res.Passed = step.Expect.matches(res.Status, out)
	}

	span.SetAttributes(attribute.String("catalog.status", res.Status))

	if !res.Passed {
		span.SetStatus(codes.Error, "expectation failed")
		r.logger.WarnContext(ctx, "expectation failed",
			slog.Int("step", index),
			slog.String("op", step.Op),
			slog.String("got", res.Status+" "+res.Value),
			slog.String("want", res.Expected))
	}

	if r.metrics != nil {
		status := observability.StatusOK
		if out.err != nil {
			status = observability.StatusError
		}

		r.metrics.RecordRequest(ctx, step.Op, status, elapsed)
	}

	return res
}

func apply(c *catalog.Company, s Step) outcome {
	var out outcome

	switch s.Op {
	case OpNewMonth:
		out.err = c.NewMonth(s.Stocks)
	case OpAddCustomer:
		out.err = c.AddCustomer(s.ID, s.Phone)
	case OpGetPhone:
		phone, err := c.Phone(s.ID)
		out.err = err
		out.setValue(float64(phone))
	case OpMakeMember:
		out.err = c.MakeMember(s.ID)
	case OpIsMember:
		member, err := c.IsMember(s.ID)
		out.err = err
		out.member = &member
	case OpBuyRecord:
		out.err = c.BuyRecord(s.ID, s.Record)
	case OpAddPrize:
		out.err = c.AddPrize(s.Lo, s.Hi, s.Amount)
	case OpGetExpenses:
		total, err := c.Expenses(s.ID)
		out.err = err
		out.setValue(total)
	case OpPutOnTop:
		out.err = c.PutOnTop(s.Record, s.Onto)
	case OpGetPlace:
		column, height, err := c.Place(s.Record)
		out.err = err
		out.column, out.height = &column, &height
	default:
		out.err = fmt.Errorf("%w: unknown op %q", catalog.ErrInvalidInput, s.Op)
	}

	if out.err != nil {
		out.value, out.member, out.column, out.height = nil, nil, nil, nil
	}

	return out
}

func (o *outcome) setValue(v float64) {
	o.value = &v
}

func (o *outcome) display() string {
	switch {
	case o.value != nil:
		return strconv.FormatFloat(*o.value, 'f', -1, 64)
	case o.member != nil:
		return strconv.FormatBool(*o.member)
	case o.column != nil:
		return fmt.Sprintf("column %d height %d", *o.column, *o.height)
	default:
		return ""
	}
}

func (e *Expect) status() string {
	if e.Status == "" {
		return catalog.StatusSuccess
	}

	return e.Status
}

func (e *Expect) matches(status string, out outcome) bool {
	if status != e.status() {
		return false
	}

	if e.Value != nil && (out.value == nil || math.Abs(*out.value-*e.Value) > valueEpsilon) {
		return false
	}

	if e.Member != nil && (out.member == nil || *out.member != *e.Member) {
		return false
	}

	if e.Column != nil && (out.column == nil || *out.column != *e.Column) {
		return false
	}

	return e.Height == nil || (out.height != nil && *out.height == *e.Height)
}

func (e *Expect) display() string {
	parts := []string{e.status()}

	if e.Value != nil {
		parts = append(parts, strconv.FormatFloat(*e.Value, 'f', -1, 64))
	}

	if e.Member != nil {
		parts = append(parts, strconv.FormatBool(*e.Member))
	}

	if e.Column != nil {
		parts = append(parts, "column "+strconv.Itoa(*e.Column))
	}

	if e.Height != nil {
		parts = append(parts, "height "+strconv.Itoa(*e.Height))
	}

	return strings.Join(parts, " ")
}
