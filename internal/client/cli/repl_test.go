package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) New(context.Context) error                 { return f.record("new", nil) }
func (f *fakeExec) Open(_ context.Context, a []string) error  { return f.record("open", a) }
func (f *fakeExec) Show(context.Context) error                { return f.record("show", nil) }
func (f *fakeExec) Edit(context.Context) error                { return f.record("edit", nil) }
func (f *fakeExec) Load(_ context.Context, a []string) error  { return f.record("load", a) }
func (f *fakeExec) Watch(_ context.Context, a []string) error { return f.record("watch", a) }
func (f *fakeExec) Unwatch(context.Context) error             { return f.record("unwatch", nil) }
func (f *fakeExec) Sync(context.Context) error                { return f.record("sync", nil) }
func (f *fakeExec) Info(context.Context) error                { return f.record("info", nil) }
func (f *fakeExec) List(context.Context) error                { return f.record("list", nil) }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"new",
		"open 123 c2Vj",
		"",
		"show",
		"edit",
		"load notes.md",
		"watch notes.md",
		"unwatch",
		"sync",
		"info",
		"l",
		"list",
		"exit",
		"sync",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(online)" }, bufio.NewScanner(input))

	require.Equal(t, []string{
		"new", "open", "show", "edit", "load", "watch", "unwatch", "sync", "info", "list", "list",
	}, exec.calls)
	require.Equal(t, []string{"123", "c2Vj"}, exec.args[1])
	require.Equal(t, []string{"notes.md"}, exec.args[4])
}

func TestRunREPL_UnknownAndErrors(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{err: errors.New("boom")}
	input := strings.NewReader("frobnicate\nsync\nquit\n")
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	require.Equal(t, []string{"sync"}, exec.calls)
	require.Contains(t, *lines, "Unknown command: frobnicate")
	require.Contains(t, *lines, "Error: boom")
	require.Contains(t, *lines, "Bye!")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("new")))
	require.Equal(t, []string{"new"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("new\n")))
	require.Empty(t, exec.calls)
}
