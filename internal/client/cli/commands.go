package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/cryptox"
	"github.com/dmitrijs2005/gophdocs/internal/filex"
)

var errUsage = errors.New("wrong arguments, see help")

func (a *App) New(ctx context.Context) error {
	if err := a.session.New(ctx); err != nil {
		return err
	}
	st := a.session.Snapshot()
	a.printf("New document %s\n", st.Document.ID)
	return nil
}

// Open accepts "<id>" or "<id> <secret>". Without a secret on the command
// line it is read from the terminal without echo.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}

	var secret string
	if len(args) == 2 {
		secret = args[1]
	} else {
		a.outMu.Lock()
		s, err := GetSecret(a.out)
		a.outMu.Unlock()
		if err != nil {
			return err
		}
		secret = s
	}

	if err := a.session.Open(ctx, args[0], cryptox.Secret(secret)); err != nil {
		return err
	}
	a.printf("Opened %s\n", args[0])
	return nil
}

func (a *App) Show(ctx context.Context) error {
	st := a.session.Snapshot()
	a.printf("%s\n", st.Document.Content)
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	a.outMu.Lock()
	content, err := GetMultiline(a.scanner, "Enter the new document text", a.out)
	a.outMu.Unlock()
	if err != nil {
		return err
	}
	a.session.Edit(ctx, content)
	return nil
}

func (a *App) Load(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	content, err := filex.ReadText(args[0])
	if err != nil {
		return err
	}
	a.session.Edit(ctx, content)
	a.printf("Loaded %s\n", args[0])
	return nil
}

// Watch replaces the open document with the file's content on every save.
// Only one file is watched at a time.
func (a *App) Watch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.Load(ctx, args); err != nil {
		return err
	}

	w, err := startFileWatcher(ctx, args[0], a.log, func(path string) {
		a.reloadWatched(ctx, path)
	})
	if err != nil {
		return err
	}

	a.stopWatch()
	a.watchMu.Lock()
	a.watcher = w
	a.watchMu.Unlock()

	a.printf("Watching %s\n", args[0])
	return nil
}

func (a *App) reloadWatched(ctx context.Context, path string) {
	content, err := filex.ReadText(path)
	if err != nil {
		a.printf("Cannot read %s: %v\n", path, err)
		return
	}
	if content == a.session.Snapshot().Document.Content {
		return
	}
	a.session.Edit(ctx, content)
	a.log.Debug(ctx, "document reloaded", "path", path)
}

func (a *App) stopWatch() {
	a.watchMu.Lock()
	w := a.watcher
	a.watcher = nil
	a.watchMu.Unlock()

	if w != nil {
		w.stop()
	}
}

func (a *App) Unwatch(ctx context.Context) error {
	a.stopWatch()
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	return a.session.Sync(ctx)
}

func (a *App) Info(ctx context.Context) error {
	st := a.session.Snapshot()
	a.printf("id:                 %s\nsecret:             %s\nsecret stored:      %s\nlast_modified:      %s\nlast_local_persist: %s\nmode:               %s\n",
		st.Document.ID, string(st.Secret), a.secretStorage(),
		formatMillis(st.Document.LastModified), formatMillis(st.Document.LastLocalPersist),
		a.mode())
	return nil
}

func (a *App) secretStorage() string {
	if a.config.RememberSecret {
		return "yes, in plain text under " + a.config.DataDir
	}
	return "no"
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", time.UnixMilli(ms).Format(time.RFC3339), ms)
}
