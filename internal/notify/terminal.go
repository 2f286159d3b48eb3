package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// TerminalNotifier prints a highlighted banner for failures and warnings so
// they stand out in a busy watch session.
type TerminalNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	failure *color.Color
	warning *color.Color
}

// NewTerminalNotifier writes banners to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{
		out:     out,
		failure: color.New(color.FgWhite, color.BgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
	}
}

func (n *TerminalNotifier) Notify(_ context.Context, ev Event) {
	var c *color.Color
	var label string
	switch ev.Kind {
	case KindFailed:
		c, label = n.failure, " BUILD ERROR "
	case KindWarning:
		c, label = n.warning, " WARNING "
	default:
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	c.Fprint(n.out, label)
	fmt.Fprintf(n.out, " %s: %s\n", ev.Task, ev.Message)
}
