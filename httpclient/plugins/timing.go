package plugins

import (
	"context"
	"time"
)

type startKey struct{ plugin string }

func withStart(ctx context.Context, plugin string) context.Context {
	return context.WithValue(ctx, startKey{plugin}, time.Now())
}

// elapsed returns the time since withStart ran for plugin, or zero.
func elapsed(ctx context.Context, plugin string) time.Duration {
	start, ok := ctx.Value(startKey{plugin}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
