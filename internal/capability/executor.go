package capability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orgscan/orgscan/internal/model"
)

// ExecResult is the executor's uniform view of one tool run. A failed
// run still yields a usable result: Success is false, Err carries the
// failure, and Evidence holds whatever was extracted before the failure.
type ExecResult struct {
	// Tool is the capability that ran.
	Tool string

	// Success reports whether the capability completed without error.
	Success bool

	// Evidence is the items extracted, possibly partial on failure.
	Evidence []model.EvidenceItem

	// Characteristics is the page observations to merge into the context.
	Characteristics map[string]string

	// Duration is how long the run took.
	Duration time.Duration

	// Err is the failure, nil on success.
	Err error
}

// Executor dispatches tool names to registered capabilities, bounding
// each run with a timeout and converting panics into failed results.
//
// Design decision: a panicking capability is reported exactly like one
// that returned an error. The per-URL decision loop must keep running
// whatever a single tool does to itself; killing the whole collection
// over one bad extractor would throw away every other tool's work.
type Executor struct {
	capabilities map[string]Capability
	timeout      time.Duration
	logger       *slog.Logger
}

// NewExecutor creates an executor with the given per-tool timeout.
// A zero or negative timeout disables the per-tool deadline.
func NewExecutor(timeout time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		capabilities: make(map[string]Capability),
		timeout:      timeout,
		logger:       logger,
	}
}

// Register adds a capability under its own name. Registering a second
// capability with the same name replaces the first.
func (e *Executor) Register(c Capability) {
	e.capabilities[c.Name()] = c
}

// Registered reports whether a tool name has a capability behind it.
func (e *Executor) Registered(tool string) bool {
	_, ok := e.capabilities[tool]
	return ok
}

// Execute runs the named tool against the URL. It never panics and never
// returns a nil result: unknown tools, timeouts, capability errors and
// capability panics all come back as a result with Success false.
func (e *Executor) Execute(ctx context.Context, tool, url string, pc *model.PageContext) *ExecResult {
	start := time.Now()

	c, ok := e.capabilities[tool]
	if !ok {
		return &ExecResult{
			Tool:     tool,
			Duration: time.Since(start),
			Err:      &ToolExecutionError{Tool: tool, URL: url, Err: ErrUnknownTool},
		}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	res, err := e.collect(ctx, c, url, pc)
	duration := time.Since(start)

	out := &ExecResult{
		Tool:     tool,
		Duration: duration,
	}
	if res != nil {
		out.Evidence = res.Evidence
		out.Characteristics = res.Characteristics
	}
	if err != nil {
		out.Err = &ToolExecutionError{Tool: tool, URL: url, Err: err}
		e.logger.Debug("tool failed",
			slog.String("tool", tool),
			slog.String("url", url),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return out
	}

	out.Success = true
	e.logger.Debug("tool completed",
		slog.String("tool", tool),
		slog.String("url", url),
		slog.Int("evidence", len(out.Evidence)),
		slog.Duration("duration", duration))
	return out
}

// collect invokes the capability with panic isolation.
func (e *Executor) collect(ctx context.Context, c Capability, url string, pc *model.PageContext) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("capability panic: %v", r)
		}
	}()
	return c.Collect(ctx, url, pc)
}
