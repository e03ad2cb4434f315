// Package cli provides the interactive GophDocs command-line client.
//
// It holds one open document at a time. Edits are written to the local
// replica immediately and reach the server only on an explicit sync, so the
// client keeps working offline. A background watcher pings the server and
// reports online/offline transitions.
//
// Key features:
//   - New / Open documents by id and secret
//   - Show / Edit / Load content, Watch a Markdown file for changes
//   - Sync with the server, forking local edits into a backup on conflict
//   - List the documents stored in the local replica
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
