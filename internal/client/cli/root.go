package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := a.session.Snapshot().Document.ID
	if len(s) > 8 {
		s = s[:8]
	}
	if m := a.mode(); m != "" {
		s = s + " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// Root reopens the last session, starts the online watcher and runs the REPL.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to GophDocs CLI (type 'help' for commands)\n")

	ok, err := a.session.Restore(ctx)
	switch {
	case err != nil:
		a.printf("Could not reopen the last document: %v\n", err)
	case ok:
		a.printf("Reopened %s\n", a.session.Snapshot().Document.ID)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.scanner)
}
