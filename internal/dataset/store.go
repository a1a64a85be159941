package dataset

import (
	"fmt"
	"time"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// Store holds the three datasets a run draws on.
type Store struct {
	Historic  *Historic
	Forward   *Forward
	Mortality domain.MortalityTable
}

// Load reads every dataset named in src. An empty mortality path leaves the table empty,
// which weights every year as survived.
func Load(src domain.DataSources) (*Store, error) {
	h, err := LoadHistoric(src.Historic)
	if err != nil {
		return nil, err
	}
	fw, err := LoadForward(src.Forward)
	if err != nil {
		return nil, err
	}
	s := &Store{Historic: h, Forward: fw}
	if src.Mortality != "" {
		if s.Mortality, err = LoadMortality(src.Mortality); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Raw assembles the nominal series a configuration asks for: the historic columns for its
// currency and geography over its year range, plus the forward curves for its currency.
func (s *Store) Raw(c *domain.Configuration) (domain.RawSeries, error) {
	raw, err := s.Historic.Slice(c.DataStartYear, c.DataEndYear, c.CurrencySet, c.GeographicSet)
	if err != nil {
		return domain.RawSeries{}, fmt.Errorf("failed to select historic data: %w", err)
	}
	bond, index := s.Forward.Curves(c.CurrencySet)
	raw.BondForward = append([]float64(nil), bond...)
	raw.IndexBondForward = append([]float64(nil), index...)
	return raw, nil
}

// UpdateDate is when the forward curves were taken.
func (s *Store) UpdateDate() time.Time {
	if s.Forward == nil {
		return time.Time{}
	}
	return s.Forward.UpdateDate
}

// Snapshot is every dataset in the shape clients download it.
type Snapshot struct {
	Historic  *Historic             `json:"historic_dataset"`
	Forward   ForwardSnapshot       `json:"forward_dataset"`
	Mortality domain.MortalityTable `json:"mortality_dataset"`
}

// ForwardSnapshot adds the raw serial update date to the forward curves.
type ForwardSnapshot struct {
	*Forward
	UpdateDateSerial float64 `json:"update_date_serial"`
}

// Snapshot returns the loaded data for download.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Historic:  s.Historic,
		Forward:   ForwardSnapshot{Forward: s.Forward, UpdateDateSerial: s.Forward.UpdateSerial()},
		Mortality: s.Mortality,
	}
}
