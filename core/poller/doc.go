// Package poller drives the reconciliation engine on a recurring timer.
//
// The Poller guarantees that at most one pass runs at a time. The guard is a
// single-slot semaphore from golang.org/x/sync: ticks, the on-start pass and manual
// triggers all try to acquire it without blocking, and whoever fails is dropped.
//
// A failing or panicking pass is logged and swallowed; the guard is released on every
// exit path so the next tick can always run. Stop only halts scheduling, it never
// interrupts a pass in progress.
//
// # Usage
//
//	p := poller.New(cfg.Sync.Interval(), engine, logger,
//	    poller.WithOnComplete(history.Record))
//	if err := p.Start(); err != nil {
//	    return err
//	}
//	defer p.Stop()
package poller
