package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	New(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Load(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Unwatch(ctx context.Context) error
	Sync(ctx context.Context) error
	Info(ctx context.Context) error
	List(ctx context.Context) error
}

const helpText = `Available commands:
  new              start a new document
  open <id> [sec]  open a document (the secret is asked for when omitted)
  show             print the document
  edit             replace the document with typed text
  load <file>      replace the document with a file's content
  watch <file>     keep replacing the document as the file changes
  unwatch          stop watching
  sync             synchronize with the server
  info             id, secret and timestamps of the document
  (l)ist           documents in the local replica
  exit | quit      leave the program

The open document's secret is kept in plain text in the data directory so
the next run can reopen it. Start with -k=false to keep only the id.`

// runREPL starts a simple read-eval-print loop for the GophDocs CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on scanner EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "new":
			err = a.New(ctx)
		case "open":
			err = a.Open(ctx, args)
		case "show":
			err = a.Show(ctx)
		case "edit":
			err = a.Edit(ctx)
		case "load":
			err = a.Load(ctx, args)
		case "watch":
			err = a.Watch(ctx, args)
		case "unwatch":
			err = a.Unwatch(ctx)
		case "sync":
			err = a.Sync(ctx)
		case "info":
			err = a.Info(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
