// Package limiter bounds how many outbound requests run at once.
//
// A [Limiter] is a FIFO gate: units are admitted in the order they arrive,
// at most [Limiter.Limit] run concurrently, and each caller receives its own
// unit's result. A failing unit releases its slot like a successful one and
// never affects its siblings.
//
//	l := limiter.New(2)
//	info, err := limiter.Run(ctx, l, func(ctx context.Context) (*Info, error) {
//	    return client.Fetch(ctx, query)
//	})
//
// A Limiter's bound is fixed. To change it, construct a new Limiter and
// route new work to it; work already queued on the old one drains under
// the old bound.
package limiter
