package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/assetgrid/internal/app"
)

// Execute runs the parsed invocation against a. Unknown task names are usage
// errors; everything else a failed run returns is passed through.
func Execute(ctx context.Context, a *app.App, inv *Invocation, out io.Writer) error {
	switch {
	case inv.List:
		return a.List(out)
	case len(inv.Tasks) > 0:
		for _, name := range inv.Tasks {
			if _, ok := a.Registry().Lookup(name); !ok {
				return usageError(fmt.Errorf("unknown task '%s' (known: %v)", name, a.Registry().Sorted()))
			}
		}
		return a.Run(ctx, inv.Tasks)
	default:
		return a.RunTarget(ctx, inv.Target)
	}
}
