package orchestrator

import "time"

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	mode           Mode
	maxIterations  int
	summarizerName string
	stepTimeout    time.Duration
	eventBuffer    int
	logger         *DebugLogger
}

func defaultOptions() *orchestratorOptions {
	return &orchestratorOptions{
		mode:          ModeFull,
		maxIterations: 25,
		eventBuffer:   100,
		logger:        NopLogger(),
	}
}

// WithMode selects full or iterative planning.
func WithMode(m Mode) Option {
	return func(o *orchestratorOptions) { o.mode = m }
}

// WithMaxIterations caps the iterative planning loop. Zero disables the
// ceiling and restores the unbounded loop.
func WithMaxIterations(n int) Option {
	return func(o *orchestratorOptions) { o.maxIterations = n }
}

// WithSummarizer names the capability used for summarization instead of
// the first registered one.
func WithSummarizer(name string) Option {
	return func(o *orchestratorOptions) { o.summarizerName = name }
}

// WithStepTimeout bounds each step's completion call. Zero disables the
// timeout.
func WithStepTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.stepTimeout = d }
}

// WithEventBuffer sets the event channel buffer size.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) { o.eventBuffer = n }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}
