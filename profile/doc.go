// Package profile adds runtime profiling capabilities around a single
// operation, such as a benchmark that parses or serializes a large
// document.
//
// It supports CPU, heap, allocs, goroutine, threadcreate, block, and mutex
// profiles. Construct a [Profiler] with [New] and its [Option] functions,
// call [Profiler.Start] before the operation, and [Profiler.Stop]
// afterward to flush all enabled snapshots:
//
//	p := profile.New(profile.WithCPUProfile("parse.cpu.prof"))
//	if err := p.Start(); err != nil {
//	    return err
//	}
//	defer func() { _ = p.Stop() }()
//
//	doc, err := relax.Parse(text, relax.Permissive())
package profile
