package notify

import (
	"context"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// LogNotifier writes events to the logger carried by the context. Failures
// and warnings are already logged by the executor that produced them, so
// they are not repeated here.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx).With("task", ev.Task, "kind", string(ev.Kind))
	switch ev.Kind {
	case KindFailed, KindWarning:
		return
	case KindReload:
		logger.Debug("Reload requested.", "paths", ev.Paths, "css_only", ev.CSSOnly)
	default:
		logger.Debug(ev.Message, "paths", ev.Paths)
	}
}
