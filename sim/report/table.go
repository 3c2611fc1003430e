// Package report turns a run's result events into an append-only table and
// exports it as an aligned text table, CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/w0fv1/GamblerSimulation/sim"
)

// Header is the column order used by every export format.
var Header = []string{"balance", "avg", "best", "worst"}

// Row is one balance level's outcome.
type Row struct {
	Balance float64 `json:"balance"`
	Avg     float64 `json:"avg"`
	Best    float64 `json:"best"`
	Worst   float64 `json:"worst"`
}

// Table accumulates rows in emission order. Rows are never reordered or
// removed. Safe for one writer and concurrent readers.
type Table struct {
	mu   sync.RWMutex
	rows []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make([]Row, 0)}
}

// Add appends the row for one level result.
func (t *Table) Add(r sim.LevelResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, Row{
		Balance: r.Balance,
		Avg:     r.Results.Avg,
		Best:    r.Results.Best,
		Worst:   r.Results.Worst,
	})
}

// Observe adds ev to the table if it is a result event and reports whether
// it did.
func (t *Table) Observe(ev sim.Event) bool {
	if ev.Kind != sim.EventResult || ev.Result == nil {
		return false
	}
	t.Add(*ev.Result)
	return true
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func cells(r Row) []string {
	return []string{fixed2(r.Balance), fixed2(r.Avg), fixed2(r.Best), fixed2(r.Worst)}
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteText writes an aligned table for terminals.
func (t *Table) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "BALANCE\tAVG BETS\tBEST\tWORST\t")
	for _, r := range t.Rows() {
		c := cells(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", c[0], c[1], c[2], c[3])
	}
	return tw.Flush()
}

// WriteCSV writes a header line and one line per row, values to 2 decimals.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range t.Rows() {
		if err := cw.Write(cells(r)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export is the JSON document produced by WriteJSON.
type Export struct {
	Parameters sim.Config `json:"parameters"`
	Results    []Row      `json:"results"`
}

// WriteJSON writes {"parameters": cfg, "results": rows} with values rounded
// to 2 decimals.
func (t *Table) WriteJSON(w io.Writer, cfg sim.Config) error {
	rows := t.Rows()
	for i := range rows {
		rows[i] = Row{
			Balance: round2(rows[i].Balance),
			Avg:     round2(rows[i].Avg),
			Best:    round2(rows[i].Best),
			Worst:   round2(rows[i].Worst),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export{Parameters: cfg, Results: rows}); err != nil {
		return fmt.Errorf("writing json export: %w", err)
	}
	return nil
}
