package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if u := a.client.Username(); u != "" {
		return fmt.Sprintf("(%s) ", u)
	}
	return ""
}

// Root runs the REPL on the app's input until the user leaves.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophnotes CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
