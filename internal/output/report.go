package output

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// GenerateReport writes the report in the named format to a timestamped file in dir and
// returns the file name. The format "all" writes every registered format.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, report, dir)
			if err != nil {
				return files, fmt.Errorf("failed to write %s report: %w", f.Name(), err)
			}
			files = append(files, name)
		}
		return files, nil
	}
	f, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	name, err := WriteFormatted(f, report, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s report: %w", f.Name(), err)
	}
	return []string{name}, nil
}

// Render formats the report and writes it to w.
func Render(w io.Writer, report *domain.Report, format string) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// SaveConfiguration writes a scenario configuration as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
