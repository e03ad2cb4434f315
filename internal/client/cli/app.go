package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/client/config"
	"github.com/dmitrijs2005/gophdocs/internal/client/events"
	"github.com/dmitrijs2005/gophdocs/internal/client/services"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	session services.SessionService
	log     logging.Logger
	scanner *bufio.Scanner

	outMu sync.Mutex
	out   io.Writer

	modeMu sync.Mutex
	Mode   Mode

	watchMu sync.Mutex
	watcher *fileWatcher

	unsubscribe func()
}

func NewApp(c *config.Config, session services.SessionService, bus *events.Bus, log logging.Logger) *App {
	a := &App{
		config:  c,
		session: session,
		log:     log.With("module", "cli"),
		scanner: bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
	}
	a.unsubscribe = bus.Subscribe(a.handleEvent)
	return a
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.modeMu.Unlock()

	if changed {
		a.printf("Switched to %s mode\n", mode)
	}
}

// handleEvent turns engine notifications into user-facing messages.
func (a *App) handleEvent(e events.Event) {
	switch ev := e.(type) {
	case events.AppIsOnline:
		a.setMode(ModeOnline)
	case events.AppIsOffline:
		a.setMode(ModeOffline)
	case events.NoDocumentID:
		a.printf("No document id given\n")
	case events.DocumentNotFound:
		a.printf("Document %s not found\n", ev.ID)
	case events.DecryptionFailed:
		a.printf("Cannot decrypt document %s: wrong secret?\n", ev.ID)
	case events.Synchronize:
		a.printf("Synchronized at %s (last_modified %d)\n", ev.Date.Format(time.RFC3339), ev.LastModified)
	case events.Conflict:
		a.printf("Conflict: the server had a newer version, which is now open.\n")
		a.printf("Your local edits were saved as a backup:\n  id:     %s\n  secret: %s\n",
			ev.Backup.Document.ID, string(ev.Backup.Secret))
	case events.UpdateWithoutConflict:
		a.printf("Updated from the server (last_modified %d)\n", ev.Document.LastModified)
	case events.SyncFailed:
		a.printf("Sync failed: %v\n", ev.Err)
	case events.PersistFailed:
		a.printf("Saving %s locally failed: %v\n", ev.ID, ev.Err)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.stopWatch()
		a.unsubscribe()
		if err := a.session.Close(ctx); err != nil {
			a.log.Error(ctx, "close session", "error", err)
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
// It only reports the mode; it never syncs.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.session.Ping(ctx); err != nil {
		a.log.Debug(ctx, "ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
