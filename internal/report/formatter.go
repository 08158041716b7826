// Package report turns the coordinator's terminal outcomes into the
// daily digest and delivers it. Delivery failures are logged, never
// propagated; a run's outcome does not depend on the mail provider.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/primogreedy/scout/internal/contracts"
)

// Formatter renders region reports into a plain-text and an HTML body
type Formatter struct{}

// NewFormatter creates a report formatter
func NewFormatter() *Formatter { return &Formatter{} }

// Subject builds the digest subject line: the accepted tickers when
// there are any, otherwise the outcome summary.
func (f *Formatter) Subject(reports map[contracts.Region]*contracts.RegionReport, day time.Time) string {
	accepted := make([]string, 0, len(reports))
	for _, r := range sorted(reports) {
		if r.Kind == contracts.ReportAccepted && r.Run != nil && r.Run.Accepted != nil {
			accepted = append(accepted, r.Run.Accepted.Ticker)
		}
	}
	date := day.Format("Jan 2")
	if len(accepted) == 0 {
		return fmt.Sprintf("Scout %s: no picks today", date)
	}
	return fmt.Sprintf("Scout %s: %s", date, strings.Join(accepted, ", "))
}

// Format renders the full digest body. Every region appears exactly
// once, skipped regions included.
func (f *Formatter) Format(reports map[contracts.Region]*contracts.RegionReport) string {
	var b strings.Builder
	for _, r := range sorted(reports) {
		f.formatRegion(&b, r)
		b.WriteString("\n")
	}
	return b.String()
}

func (f *Formatter) formatRegion(b *strings.Builder, r *contracts.RegionReport) {
	fmt.Fprintf(b, "== %s ==\n", r.Region)

	switch r.Kind {
	case contracts.ReportAccepted:
		f.formatAccepted(b, r)

	case contracts.ReportAnalystFailed:
		c := r.Run.Accepted
		fmt.Fprintf(b, "PICK: %s (%s) at %.2f %s, score %d/100\n",
			c.Ticker, c.CompanyName, c.Price, c.Region.Currency(), c.Score)
		fmt.Fprintf(b, "Memo unavailable: %v\n", r.Err)
		f.formatFilings(b, r.Region, c.Ticker)

	case contracts.ReportExhausted:
		if r.Run != nil {
			fmt.Fprintf(b, "No pick (%s)\n", r.Run.ExhaustReason)
			for i, v := range r.Run.Rejections {
				fmt.Fprintf(b, "  attempt %d: %s rejected (%s)\n",
					i+1, v.Ticker, strings.Join(v.Reasons, ", "))
			}
		} else {
			fmt.Fprintf(b, "No pick: %v\n", r.Err)
		}

	case contracts.ReportSkipped:
		b.WriteString("Skipped: run deadline reached before this region started\n")
	}
}

func (f *Formatter) formatAccepted(b *strings.Builder, r *contracts.RegionReport) {
	c := r.Run.Accepted
	fmt.Fprintf(b, "PICK: %s (%s) at %.2f %s, score %d/100\n",
		c.Ticker, c.CompanyName, c.Price, c.Region.Currency(), c.Score)
	if c.GrahamValue != nil {
		fmt.Fprintf(b, "Graham number: %.2f\n", *c.GrahamValue)
	}
	for _, line := range c.Breakdown {
		fmt.Fprintf(b, "  %s\n", line)
	}
	if r.Memo != nil {
		fmt.Fprintf(b, "\nMemo (%s):\n%s\n", r.Memo.Model, r.Memo.Body)
	}
	f.formatFilings(b, r.Region, c.Ticker)
}

func (f *Formatter) formatFilings(b *strings.Builder, region contracts.Region, ticker string) {
	name, url := region.FilingSource()
	fmt.Fprintf(b, "Filings: %s %s (search %s)\n", name, url, ticker)
}

// HTML wraps the plain-text digest for delivery
func (f *Formatter) HTML(reports map[contracts.Region]*contracts.RegionReport) string {
	body := f.Format(reports)
	escaped := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(body)
	return "<pre style=\"font-family: monospace\">" + escaped + "</pre>"
}

// sorted returns reports in canonical region order so the digest and
// the subject line are deterministic.
func sorted(reports map[contracts.Region]*contracts.RegionReport) []*contracts.RegionReport {
	out := make([]*contracts.RegionReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return regionRank(out[i].Region) < regionRank(out[j].Region)
	})
	return out
}

func regionRank(r contracts.Region) int {
	for i, known := range contracts.AllRegions {
		if known == r {
			return i
		}
	}
	return len(contracts.AllRegions)
}
