// Package report runs the analytic query battery over the loaded catalog
// and renders each result as a console table.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"chinookdemo/internal/logger"
)

// Querier is the slice of the database client the report runner needs.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Report is one named analytic query.
type Report struct {
	Title string
	Query string
}

// Battery returns the fixed set of analytic queries, in display order.
func Battery() []Report {
	return []Report{
		{
			Title: "Top-selling artists",
			Query: `SELECT ar.Name AS Artist, SUM(il.Quantity) AS UnitsSold, SUM(il.UnitPrice * il.Quantity) AS Revenue
FROM InvoiceLine il
JOIN Track t ON t.TrackId = il.TrackId
JOIN Album al ON al.AlbumId = t.AlbumId
JOIN Artist ar ON ar.ArtistId = al.ArtistId
GROUP BY ar.Name
ORDER BY UnitsSold DESC, ar.Name
LIMIT 10`,
		},
		{
			Title: "Sales by country",
			Query: `SELECT BillingCountry AS Country, COUNT(*) AS Invoices, SUM(Total) AS Revenue
FROM Invoice
GROUP BY BillingCountry
ORDER BY Revenue DESC`,
		},
		{
			Title: "Top customers by spend",
			Query: `SELECT c.FirstName, c.LastName, c.Country, SUM(i.Total) AS Spend
FROM Customer c
JOIN Invoice i ON i.CustomerId = c.CustomerId
GROUP BY c.FirstName, c.LastName, c.Country
ORDER BY Spend DESC
LIMIT 10`,
		},
		{
			Title: "Tracks per genre",
			Query: `SELECT g.Name AS Genre, COUNT(t.TrackId) AS Tracks
FROM Genre g
LEFT JOIN Track t ON t.GenreId = g.GenreId
GROUP BY g.Name
ORDER BY Tracks DESC, g.Name`,
		},
		{
			Title: "Playlist sizes",
			Query: `SELECT p.Name AS Playlist, COUNT(pt.TrackId) AS Tracks
FROM Playlist p
LEFT JOIN PlaylistTrack pt ON pt.PlaylistId = p.PlaylistId
GROUP BY p.Name
ORDER BY Tracks DESC, p.Name`,
		},
	}
}

// Runner executes reports and writes formatted tables.
type Runner struct {
	db  Querier
	log logger.Logger
	out io.Writer
}

// NewRunner creates a report runner writing to out.
func NewRunner(db Querier, log logger.Logger, out io.Writer) *Runner {
	return &Runner{db: db, log: log, out: out}
}

// RunAll executes the whole battery. A failing report is logged and the
// battery continues; the first error is returned after all reports ran.
func (r *Runner) RunAll(ctx context.Context) error {
	var firstErr error
	for _, rep := range Battery() {
		if err := r.Run(ctx, rep); err != nil {
			r.log.Error("Report failed", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("report %q: %w", rep.Title, err)
			}
		}
	}
	return firstErr
}

// Run executes one report and renders its rows.
func (r *Runner) Run(ctx context.Context, rep Report) error {
	rows, err := r.db.Query(ctx, rep.Query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	fmt.Fprintln(r.out)
	logger.HighlightColor.Fprintln(r.out, rep.Title)

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	separators := make([]string, len(columns))
	for i, col := range columns {
		separators[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(tw, strings.Join(separators, "\t"))

	var count int
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "(%s)\n", humanize.Comma(int64(count))+" rows")
	return nil
}

// formatValue renders one result cell. Drivers hand back a narrow set of
// types through database/sql; anything else falls through to fmt.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case int64:
		return humanize.Comma(val)
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
