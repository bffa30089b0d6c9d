package cmd

import (
	"io"
	"text/tabwriter"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
