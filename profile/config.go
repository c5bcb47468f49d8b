package profile

// Option configures a [Profiler].
type Option func(*Profiler)

// WithCPUProfile writes a CPU profile to path when the [Profiler] is started.
func WithCPUProfile(path string) Option {
	return func(p *Profiler) {
		p.CPUProfile = path
	}
}

// WithHeapProfile writes a heap snapshot to path when the [Profiler] stops.
func WithHeapProfile(path string) Option {
	return func(p *Profiler) {
		p.HeapProfile = path
	}
}

// WithAllocsProfile writes an allocs snapshot to path when the [Profiler] stops.
func WithAllocsProfile(path string) Option {
	return func(p *Profiler) {
		p.AllocsProfile = path
	}
}

// WithGoroutineProfile writes a goroutine snapshot to path when the
// [Profiler] stops.
func WithGoroutineProfile(path string) Option {
	return func(p *Profiler) {
		p.GoroutineProfile = path
	}
}

// WithBlockProfile writes a block-contention snapshot to path when the
// [Profiler] stops, sampled at rate nanoseconds.
func WithBlockProfile(path string, rate int) Option {
	return func(p *Profiler) {
		p.BlockProfile = path
		p.BlockProfileRate = rate
	}
}

// WithMutexProfile writes a mutex-contention snapshot to path when the
// [Profiler] stops, sampled 1/fraction of the time.
func WithMutexProfile(path string, fraction int) Option {
	return func(p *Profiler) {
		p.MutexProfile = path
		p.MutexProfileFraction = fraction
	}
}

// WithMemProfileRate sets the heap-sampling rate in bytes per sample.
func WithMemProfileRate(rate int) Option {
	return func(p *Profiler) {
		p.MemProfileRate = rate
	}
}

// Config holds profiling output paths and sampling rates. A zero-value
// Config has all profiles disabled.
type Config struct {
	// Output paths (empty = disabled).
	CPUProfile          string
	HeapProfile         string
	AllocsProfile       string
	GoroutineProfile    string
	ThreadcreateProfile string
	BlockProfile        string
	MutexProfile        string

	// Rate configuration.
	MemProfileRate       int
	BlockProfileRate     int
	MutexProfileFraction int
}

// New creates a [Profiler] with all profiles disabled by default, applying
// opts in order.
//
// Unlike a CLI tool, callers here are almost always tests and benchmarks
// instrumenting a single parse/serialize run; New is built to be called
// directly from a benchmark's setup rather than bound to flags.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		Config: Config{
			MemProfileRate:       524288,
			BlockProfileRate:     1,
			MutexProfileFraction: 1,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}
