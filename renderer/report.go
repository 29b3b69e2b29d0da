// Package renderer turns a computed report into markdown and puts it on the
// terminal. Presentation only: nothing here feeds back into the pipeline.
package renderer

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/guregu/null/v6"

	ex "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/extensions"
	m "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/models"
)

//go:embed templates
var templates embed.FS

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var reportTemplate = template.Must(
	template.New("report.md").Funcs(template.FuncMap{
		"date":     func(t time.Time) string { return t.Format(time.DateOnly) },
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"pct":      formatPercent,
		"nf":       formatNullable,
		"nfp":      formatNullablePlain,
		"spark":    sparkline,
	}).ParseFS(templates, "templates/report.md"),
)

// RenderReport executes the markdown template over the report payload.
func RenderReport(r *m.Report) (string, error) {
	var out strings.Builder
	if err := reportTemplate.Execute(&out, r); err != nil {
		return "", fmt.Errorf("error rendering report template: %w", err)
	}
	return out.String(), nil
}

// Write stores the markdown artifact on disk.
func Write(path, markdown string) error {
	return os.WriteFile(path, []byte(markdown), 0o644)
}

// Display renders the markdown to the terminal.
func Display(markdown string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("error building terminal renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("error rendering report for terminal: %w", err)
	}
	_, err = fmt.Print(out)
	return err
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// formatNullable prints an undefined statistic as n/a instead of NaN.
func formatNullable(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}

func formatNullablePlain(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", v.Float64)
}

const sparkWidth = 64

// sparkline maps the valid values onto eight block levels; the undefined
// rolling-mean prefix renders as spaces. Long series are bucketed down to
// sparkWidth columns.
func sparkline(values []null.Float) string {
	if len(values) > sparkWidth {
		values = downsample(values, sparkWidth)
	}

	lo, hi := 0.0, 0.0
	first := true
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if first || v.Float64 < lo {
			lo = v.Float64
		}
		if first || v.Float64 > hi {
			hi = v.Float64
		}
		first = false
	}

	var out strings.Builder
	for _, v := range values {
		if !v.Valid {
			out.WriteRune(' ')
			continue
		}
		level := 0
		if hi > lo {
			level = ex.Min(int((v.Float64-lo)/(hi-lo)*float64(len(sparkLevels))), len(sparkLevels)-1)
		}
		out.WriteRune(sparkLevels[level])
	}
	return out.String()
}

// downsample averages the valid values of each bucket; a bucket with no
// valid value stays invalid.
func downsample(values []null.Float, width int) []null.Float {
	res := make([]null.Float, width)
	for b := range width {
		start := b * len(values) / width
		end := (b + 1) * len(values) / width

		var sum float64
		var n int
		for _, v := range values[start:end] {
			if v.Valid {
				sum += v.Float64
				n++
			}
		}
		if n == 0 {
			res[b] = null.NewFloat(0, false)
		} else {
			res[b] = null.NewFloat(sum/float64(n), true)
		}
	}
	return res
}
