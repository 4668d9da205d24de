package workload

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/recordstore/internal/catalog"
)

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Index    int           `json:"index"`
	Op       string        `json:"op"`
	Status   string        `json:"status"`
	Value    string        `json:"value,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Expected string        `json:"expected,omitempty"`
	Checked  bool          `json:"checked"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration_ns"`
}

// MemberExpense is a member's final expenses net of prizes.
type MemberExpense struct {
	ID       int     `json:"id"`
	Expenses float64 `json:"expenses"`
}

// Report is the result of a scenario run.
type Report struct {
	RunID     string          `json:"run_id"`
	Name      string          `json:"name"`
	Steps     []StepResult    `json:"steps"`
	Members   []MemberExpense `json:"members"`
	Customers int             `json:"customers"`
	Records   int             `json:"records"`
}

// FailedCount returns the number of unmet expectations.
func (r *Report) FailedCount() int {
	n := 0

	for _, s := range r.Steps {
		if !s.Passed {
			n++
		}
	}

	return n
}

// Failed reports whether any expectation was unmet.
func (r *Report) Failed() bool {
	return r.FailedCount() > 0
}

// Summary returns a one-line description of the run.
func (r *Report) Summary() string {
	checked := 0

	for _, s := range r.Steps {
		if s.Checked {
			checked++
		}
	}

	return fmt.Sprintf("%s: %s steps, %s checked, %s failed; %s customers, %s members, %s records",
		r.Name,
		humanize.Comma(int64(len(r.Steps))),
		humanize.Comma(int64(checked)),
		humanize.Comma(int64(r.FailedCount())),
		humanize.Comma(int64(r.Customers)),
		humanize.Comma(int64(len(r.Members))),
		humanize.Comma(int64(r.Records)))
}

// WriteTable renders the steps and the member expenses as tables.
func (r *Report) WriteTable(w io.Writer, useColor bool) error {
	pass := newColor(useColor, color.FgGreen)
	fail := newColor(useColor, color.FgRed, color.Bold)
	soft := newColor(useColor, color.FgYellow)

	steps := table.NewWriter()
	steps.SetStyle(table.StyleLight)
	steps.SetTitle(r.Name)
	steps.AppendHeader(table.Row{"#", "Op", "Status", "Value", "Expected", "Result"})
	steps.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})

	for _, s := range r.Steps {
		status := pass.Sprint(s.Status)
		if s.Status != catalog.StatusSuccess {
			status = soft.Sprint(s.Status)
		}

		result := "-"

		switch {
		case !s.Passed:
			result = fail.Sprint("FAIL")
		case s.Checked:
			result = pass.Sprint("ok")
		}

		steps.AppendRow(table.Row{s.Index, s.Op, status, s.Value, s.Expected, result})
	}

	steps.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d failed", r.FailedCount())})

	_, err := fmt.Fprintln(w, steps.Render())
	if err != nil {
		return fmt.Errorf("write steps table: %w", err)
	}

	if len(r.Members) == 0 {
		return nil
	}

	members := table.NewWriter()
	members.SetStyle(table.StyleLight)
	members.AppendHeader(table.Row{"Member", "Expenses"})
	members.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	for _, m := range r.Members {
		members.AppendRow(table.Row{m.ID, humanize.CommafWithDigits(m.Expenses, 2)})
	}

	_, err = fmt.Fprintln(w, members.Render())
	if err != nil {
		return fmt.Errorf("write members table: %w", err)
	}

	return nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}
