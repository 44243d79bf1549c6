package dispatch

import (
	"context"

	"github.com/turnagent/core/internal/action"
)

func (d *Dispatcher) handleGrep(ctx context.Context, g action.Grep) (string, bool) {
	return d.Search.Grep(ctx, g.Pattern, g.Path, g.Include)
}

func (d *Dispatcher) handleGlob(ctx context.Context, g action.Glob) (string, bool) {
	return d.Search.Glob(ctx, g.Pattern, g.Path)
}

func (d *Dispatcher) handleLS(ctx context.Context, l action.LS) (string, bool) {
	return d.Search.LS(ctx, l.Path, l.Ignore)
}
