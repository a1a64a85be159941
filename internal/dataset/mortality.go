package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// LoadMortality reads the survival table from a CSV file.
func LoadMortality(path string) (domain.MortalityTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.MortalityTable{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()
	m, err := ReadMortality(f)
	if err != nil {
		return domain.MortalityTable{}, fmt.Errorf("failed to load mortality data from %s: %w", path, err)
	}
	return m, nil
}

// ReadMortality parses survival percentages by age, first row age 65.
func ReadMortality(r io.Reader) (domain.MortalityTable, error) {
	t, err := readTable(r, []string{"Male", "Female", "Joint"})
	if err != nil {
		return domain.MortalityTable{}, err
	}
	var m domain.MortalityTable
	if m.Male, err = t.floats("Male"); err != nil {
		return domain.MortalityTable{}, err
	}
	if m.Female, err = t.floats("Female"); err != nil {
		return domain.MortalityTable{}, err
	}
	if m.Joint, err = t.floats("Joint"); err != nil {
		return domain.MortalityTable{}, err
	}
	return m, nil
}
