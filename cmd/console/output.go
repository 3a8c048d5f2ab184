package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deicod/ermblog-console/internal/adapter/snapshot"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/service/table"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) bool {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

// render writes v as JSON or YAML, or calls tbl to write a table.
func render(w io.Writer, format string, v any, tbl func(tw *tabwriter.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		tbl(tw)
		return tw.Flush()
	}
}

func writePosts(tw *tabwriter.Writer, posts []domain.Post) {
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tAUTHOR\tUPDATED")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, orDash(string(p.Status)), truncate(p.DisplayTitle(), 48), p.AuthorLabel(), formatTime(p.UpdatedAt))
	}
}

func writeComments(tw *tabwriter.Writer, comments []domain.Comment) {
	fmt.Fprintln(tw, "ID\tSTATUS\tAUTHOR\tSUBMITTED\tCONTENT")
	for _, c := range comments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, orDash(string(c.Status)), orDash(c.AuthorName), formatTime(c.SubmittedAt), truncate(c.Content, 60))
	}
}

func writeSnapshots(tw *tabwriter.Writer, infos []snapshot.Info) {
	fmt.Fprintln(tw, "NAME\tRECORDS\tBYTES\tCOMPRESSED\tSAVED")
	for _, i := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%t\t%s\n", i.Name, i.Records, i.Bytes, i.Compressed, i.SavedAt.Format(time.RFC3339))
	}
}

// pageFooter summarizes a view below its rows.
func pageFooter[T any](w io.Writer, p table.Page[T]) {
	more := ""
	if p.HasNextPage {
		more = ", more available"
	}
	fmt.Fprintf(w, "\nview %s: %d shown of %s%s\n", p.Filter, len(p.Items), totalLabel(p.TotalCount), more)
}

// viewTotals renders "all=12 draft=3" for a set of views.
func viewTotals[T any](views []table.Page[T]) string {
	if len(views) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(views))
	for _, v := range views {
		parts = append(parts, v.Filter+"="+totalLabel(v.TotalCount))
	}
	return strings.Join(parts, " ")
}

func totalLabel(total *int) string {
	if total == nil {
		return "?"
	}
	return fmt.Sprint(*total)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
