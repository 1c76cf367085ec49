package ctlapp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/petnest/petnest/internal/console"
)

func writeTable(out io.Writer, header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "no items")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func writeDetails(out io.Writer, fields [][2]string) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	_ = tw.Flush()
}

func writeDashboard(out io.Writer, view console.DashboardView) {
	if view.Loading {
		fmt.Fprintln(out, "loading dashboard...")
		return
	}
	s := view.Stats
	writeDetails(out, [][2]string{
		{"users", strconv.Itoa(s.TotalUsers)},
		{"sellers", strconv.Itoa(s.TotalSellers)},
		{"pending sellers", strconv.Itoa(s.PendingSellers)},
		{"pending pets", strconv.Itoa(s.PendingPets)},
		{"verified pets", strconv.Itoa(s.VerifiedPets)},
		{"pending ad requests", strconv.Itoa(s.PendingAdRequests)},
		{"pending reports", strconv.Itoa(s.PendingReports)},
		{"total reports", strconv.Itoa(s.TotalReports)},
	})

	rows := make([][]string, 0, len(view.Activities))
	for _, act := range view.Activities {
		rows = append(rows, []string{act.CreatedAt.Local().Format("2006-01-02 15:04"), act.Kind, fmtID(act.EntityID), act.Action, act.Summary})
	}
	fmt.Fprintln(out)
	writeTable(out, []string{"WHEN", "KIND", "ID", "ACTION", "SUMMARY"}, rows)

	switch {
	case view.FetchedAt.IsZero():
		fmt.Fprintln(out, "no data fetched yet")
	case view.Stale:
		fmt.Fprintf(out, "cached %s, refreshing\n", view.FetchedAt.Local().Format(time.Kitchen))
	default:
		fmt.Fprintf(out, "updated %s\n", view.FetchedAt.Local().Format(time.Kitchen))
	}
}

func fmtID(v int64) string {
	return strconv.FormatInt(v, 10)
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func price(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
