package cli

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
)

// List prints the documents of the local replica. Their content stays
// encrypted; only the open one is marked.
func (a *App) List(ctx context.Context) error {
	docs, err := a.session.List(ctx)
	if err != nil {
		return err
	}
	current := a.session.Snapshot().Document.ID

	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(table.Row{"", "ID", "LAST MODIFIED", "LAST LOCAL PERSIST"})
	for _, d := range docs {
		mark := ""
		if d.ID == current {
			mark = "*"
		}
		tw.AppendRow(table.Row{mark, d.ID, formatMillis(d.LastModified), formatMillis(d.LastLocalPersist)})
	}

	a.printf("%s\n", tw.Render())
	return nil
}
