package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/schema"
	"github.com/olekukonko/tablewriter"
)

// DateTimeFormat is used for timestamps in human-readable output.
const DateTimeFormat = "2006-01-02 15:04:05"

// WriteStoreStatus prints store status as JSON or a key/value table.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeStatusTable(w, status, cfg.UseColors)
	}, "Wrote table")
}

// writeStatusTable renders the status as two columns.
func writeStatusTable(w io.Writer, status schema.StoreStatus, useColors bool) error {
	conn := status.Connection

	state := string(conn.State)
	if useColors {
		state = contract.GetColorState(conn.State)
	}

	rows := [][]string{
		{"Backend", conn.Backend},
		{"State", state},
		{"Attempts", strconv.FormatInt(conn.Attempts, 10)},
	}
	if !conn.ConnectedAt.IsZero() {
		rows = append(rows, []string{"Connected At", conn.ConnectedAt.Local().Format(DateTimeFormat)})
	}
	if conn.LastError != "" {
		rows = append(rows, []string{"Last Error", conn.LastError})
	}
	if status.Collection != "" {
		rows = append(rows, []string{"Collection", status.Collection})
	}
	if conn.State == schema.StateConnected {
		rows = append(rows, []string{"Total Events", strconv.FormatInt(status.TotalEvents, 10)})
		if status.TableSizeBytes > 0 {
			rows = append(rows, []string{"Table Size", fmt.Sprintf("%d bytes", status.TableSizeBytes)})
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Property", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
