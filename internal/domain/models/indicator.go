package models

import "time"

// Indicator describes one tracked health statistic. The set is fixed at
// build time; keys are stable API identifiers, RemoteID is the source code.
type Indicator struct {
	Key      string `json:"key"`
	RemoteID string `json:"remote_id"`
	Label    string `json:"label"`
	Unit     string `json:"unit"`
}

var indicatorCatalog = []Indicator{
	{Key: "life_expectancy", RemoteID: "SP.DYN.LE00.IN", Label: "Life expectancy at birth", Unit: "years"},
	{Key: "health_spending", RemoteID: "SH.XPD.CHEX.PC.CD", Label: "Current health expenditure per capita", Unit: "US$"},
	{Key: "child_mortality", RemoteID: "SH.DYN.MORT", Label: "Mortality rate, under-5", Unit: "per 1,000"},
	{Key: "hospital_beds", RemoteID: "SH.MED.BEDS.ZS", Label: "Hospital beds", Unit: "per 1,000 people"},
}

// Indicators returns the fixed indicator catalog.
func Indicators() []Indicator {
	out := make([]Indicator, len(indicatorCatalog))
	copy(out, indicatorCatalog)
	return out
}

// IndicatorByKey looks up an indicator by its API key.
func IndicatorByKey(key string) (Indicator, bool) {
	for _, ind := range indicatorCatalog {
		if ind.Key == key {
			return ind, true
		}
	}
	return Indicator{}, false
}

// Observation is a single (year, value) point. Values are never null here;
// null source records are dropped during normalization.
type Observation struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is the year-ordered history of one indicator for one country.
// Years are strictly ascending with no duplicates.
type Series []Observation

// ValueAt returns the value for a year, if present.
func (s Series) ValueAt(year int) (float64, bool) {
	for _, o := range s {
		if o.Year == year {
			return o.Value, true
		}
	}
	return 0, false
}

// Bundle maps indicator key to its series for one country. A stored bundle
// is always complete for every catalog indicator.
type Bundle map[string]Series

// Complete reports whether the bundle has a series for every indicator.
func (b Bundle) Complete() bool {
	for _, ind := range indicatorCatalog {
		if _, ok := b[ind.Key]; !ok {
			return false
		}
	}
	return true
}

// Country is one selectable country from the remote source.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ChartRow is one merged row for rendering. Primary and Compare are nil when
// the year is absent from that series; absences are explicit (JSON null),
// never zero, so the renderer can bridge gaps instead of plotting them.
type ChartRow struct {
	Year    int      `json:"year"`
	Primary *float64 `json:"primary"`
	Compare *float64 `json:"compare"`
}

// RefreshEvent is published when a fresh bundle is stored.
type RefreshEvent struct {
	Country     string    `json:"country"`
	Indicators  []string  `json:"indicators"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
