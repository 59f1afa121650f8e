package report

import (
	"fmt"
	"strings"
	"time"

	domain "gotitanic/domain/analysis"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects the report rendering
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a report format name; empty selects markdown
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ContentType returns the HTTP content type of the format
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Render produces the report of a snapshot in the given format
func Render(snapshot *domain.Snapshot, format Format) ([]byte, error) {
	md := Markdown(snapshot)
	switch format {
	case FormatMarkdown:
		return md, nil
	case FormatHTML:
		return HTML(md), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Markdown writes a deterministic summary of the snapshot: the age summary
// and survival tables per class, per sex and per sex and class
func Markdown(snapshot *domain.Snapshot) []byte {
	var b strings.Builder

	b.WriteString("# Passenger analysis\n\n")
	fmt.Fprintf(&b, "Snapshot `%s` built %s from %d records.\n\n",
		snapshot.ID, snapshot.CreatedAt.UTC().Format(time.RFC3339), snapshot.Count)

	b.WriteString("## Age\n\n")
	b.WriteString("| Count | Mean | Std deviation | Min | Max |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	if s := snapshot.Ages.Summary; s != nil {
		fmt.Fprintf(&b, "| %d | %.2f | %.2f | %s | %s |\n\n",
			s.Count, s.Mean, s.StdDeviation, number(s.Min), number(s.Max))
	} else {
		b.WriteString("| 0 | n/a | n/a | n/a | n/a |\n\n")
	}

	writeOutcomeTable(&b, "Survival by class", "Class", snapshot.Classes)
	writeOutcomeTable(&b, "Survival by sex", "Sex", snapshot.Sexes)

	b.WriteString("## Survival by sex and class\n\n")
	b.WriteString("| Sex | Class | Passengers | Survived | Died | Mean age survived | Mean age died |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	if root := snapshot.Sexes; root != nil {
		for _, sex := range root.Keys {
			bySex := root.Children[sex]
			for _, class := range bySex.Keys {
				leaf := bySex.Children[class]
				if leaf.Outcome == nil {
					continue
				}
				fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %s | %s |\n",
					sex, class, leaf.Count, leaf.Outcome.Survived, leaf.Outcome.Died,
					mean(leaf.Outcome.SurvivedAges), mean(leaf.Outcome.DiedAges))
			}
		}
	}

	return []byte(b.String())
}

func writeOutcomeTable(b *strings.Builder, title, column string, root *domain.CrossTabNode) {
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | Passengers | Survived | Died | Survival rate | Mean age |\n", column)
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	if root != nil {
		for _, key := range root.Keys {
			child := root.Children[key]
			survived, died := child.OutcomeTotals()
			rate := "n/a"
			if total := survived + died; total > 0 {
				rate = fmt.Sprintf("%.1f%%", 100*float64(survived)/float64(total))
			}
			fmt.Fprintf(b, "| %s | %d | %d | %d | %s | %s |\n",
				key, child.Count, survived, died, rate, mean(child.Ages))
		}
	}
	b.WriteString("\n")
}

func mean(d domain.Distribution) string {
	m, err := d.Mean()
	if err != nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", m)
}

func number(v float64) string {
	return fmt.Sprintf("%g", v)
}

// HTML renders markdown into a standalone HTML page
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Passenger analysis",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}
