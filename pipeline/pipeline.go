package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/promptable/taskops/cache"
	"github.com/promptable/taskops/fallback"
	"github.com/promptable/taskops/health"
	"github.com/promptable/taskops/observe"
	"github.com/promptable/taskops/resilience"
	"github.com/promptable/taskops/task"
)

// Executor runs a task through the primary engine. It is injected; this
// module never implements classification or model execution itself.
type Executor func(ctx context.Context, input string) (task.Result, error)

// Processor ties the cache, the primary executor, and the fallback manager
// into one Process call.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Process always returns a usable Result; the error return is
//   non-nil only alongside a terminal fallback result, never alone.
type Processor struct {
	exec     Executor
	cache    *cache.ResponseCache
	fallback *fallback.Manager
	breaker  *resilience.Breaker
	log      observe.Logger
	metrics  observe.Metrics
	tracer   observe.Tracer
}

// Option configures a Processor.
type Option func(*Processor)

// WithBreaker guards the executor with a circuit breaker. When the breaker
// is open the executor is skipped and the request goes straight to fallback.
func WithBreaker(b *resilience.Breaker) Option {
	return func(p *Processor) {
		p.breaker = b
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l observe.Logger) Option {
	return func(p *Processor) {
		p.log = l.WithComponent("pipeline")
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(mx observe.Metrics) Option {
	return func(p *Processor) {
		p.metrics = mx
	}
}

// WithTracer attaches a task tracer.
func WithTracer(t observe.Tracer) Option {
	return func(p *Processor) {
		p.tracer = t
	}
}

// New creates a Processor. The cache and fallback manager are required;
// constructing them is the caller's job so their configuration stays
// explicit.
func New(exec Executor, c *cache.ResponseCache, fb *fallback.Manager, opts ...Option) *Processor {
	p := &Processor{
		exec:     exec,
		cache:    c,
		fallback: fb,
		log:      observe.NopLogger(),
		metrics:  observe.NopMetrics(),
		tracer:   observe.NopTracer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process answers the input: from cache if possible, from the primary
// executor otherwise, and from the fallback manager when the executor
// fails. The returned error is the executor's failure cause and is only
// non-nil when the result is a terminal fallback response.
func (p *Processor) Process(ctx context.Context, input string) (task.Result, error) {
	if res, ok := p.cache.Lookup(ctx, input); ok {
		return res, nil
	}

	res, err := p.execute(ctx, input)
	if err == nil && res.Success {
		p.cache.Store(ctx, input, res)
		return res, nil
	}

	cause := err
	if cause == nil {
		// The executor reported an unsuccessful result without an error.
		cause = res.Err
	}
	fb := p.fallback.HandleFailure(ctx, input, cause)
	if fb.Success {
		// Cacheable fallback answers (canned guidance, mostly) are worth
		// keeping; the caching policy decides.
		p.cache.Store(ctx, input, fb)
		return fb, nil
	}
	return fb, cause
}

// execute runs the primary executor, through the breaker when configured,
// with a span and an execution metric around it.
func (p *Processor) execute(ctx context.Context, input string) (task.Result, error) {
	var (
		res   task.Result
		err   error
		start = time.Now()
	)
	if p.breaker != nil {
		res, err = p.breaker.Do(ctx, func(ctx context.Context) (task.Result, error) {
			return p.runSpanned(ctx, input)
		})
	} else {
		res, err = p.runSpanned(ctx, input)
	}

	p.metrics.RecordExecution(ctx, string(res.Classification.Type), time.Since(start), err)
	if err != nil {
		p.log.Warn(ctx, "primary executor failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	return res, err
}

func (p *Processor) runSpanned(ctx context.Context, input string) (task.Result, error) {
	// The task type isn't known until the executor classifies the input,
	// so the span starts generic and is renamed once the result is back.
	ctx, span := p.tracer.StartSpan(ctx, observe.TaskMeta{})
	res, err := p.exec(ctx, input)

	meta := observe.TaskMeta{
		Type:  string(res.Classification.Type),
		Route: string(res.Route),
	}
	span.SetName(meta.SpanName())
	span.SetAttributes(
		attribute.String("task.type", meta.Type),
		attribute.String("task.route", meta.Route),
	)
	p.tracer.EndSpan(span, err)

	return res, err
}

// Start launches background maintenance (the cache sweeper).
func (p *Processor) Start() {
	p.cache.StartSweeper()
}

// Close stops background maintenance and releases the cache.
func (p *Processor) Close() error {
	return p.cache.Close()
}

// Health returns an aggregator over the processor's components. Callers add
// their own checkers (memory, executor reachability) as needed.
func (p *Processor) Health() *health.Aggregator {
	agg := health.NewAggregator(health.AggregatorConfig{})
	agg.Register("cache", p.cache.Checker())
	agg.Register("fallback", p.fallback.Checker())
	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	return agg
}
