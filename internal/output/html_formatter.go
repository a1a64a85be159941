package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report with the fan charts as tables and
// the raw chart data embedded for scripting.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":  FormatPercentage,
	"rate": FormatRate,
	"add":  func(i, j int) int { return i + j },
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(r *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	s := Summarize(r)
	data := struct {
		*domain.Report
		Summary Summary
		Curr    func(float64) string
		Year    func(int) int
	}{
		r, s,
		func(v float64) string { return FormatCurrency(v, s.Currency) },
		func(i int) int { return cycleYear(r, i) },
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
