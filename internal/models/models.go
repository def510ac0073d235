package models

// Region is one of the fixed areas the statistics are published for.
type Region struct {
	ID     int    `json:"region_id"`
	Name   string `json:"region_name"`
	Abbrev string `json:"abbreviation"`
}

// Regions in database id order. The abbreviation doubles as the map path id.
var Regions = []Region{
	{ID: 1, Name: "Australia", Abbrev: "AUS"},
	{ID: 2, Name: "Victoria", Abbrev: "VIC"},
	{ID: 3, Name: "New South Wales", Abbrev: "NSW"},
	{ID: 4, Name: "Queensland", Abbrev: "QLD"},
	{ID: 5, Name: "South Australia", Abbrev: "SA"},
	{ID: 6, Name: "Northern Territory", Abbrev: "NT"},
	{ID: 7, Name: "Western Australia", Abbrev: "WA"},
	{ID: 8, Name: "Tasmania", Abbrev: "TAS"},
}

// LookupRegion matches a region by name or abbreviation.
func LookupRegion(s string) (Region, bool) {
	for _, r := range Regions {
		if r.Name == s || r.Abbrev == s {
			return r, true
		}
	}
	return Region{}, false
}

// Observation is one region/financial-year row as stored.
type Observation struct {
	RegionID          int
	StartYear         int
	ElectricityUsage  float64 // GWh
	GasUsage          float64 // PJ
	NonRenewableElec  float64 // GWh
	RenewableElec     float64 // GWh
	TotalElecGenerate float64 // GWh
	TotalGasGenerate  float64 // PJ
}

// EnergyRecord is the /api/get_data row. Keys match the published API.
type EnergyRecord struct {
	Region                string `json:"region"`
	FinancialYear         int    `json:"financial year"`
	ElectricityUsage      int64  `json:"electricity_usage"`
	GasUsage              int64  `json:"gas_usage"`
	NonRenewableGenerated int64  `json:"non_renewable_source_electricity_generated"`
	RenewableGenerated    int64  `json:"renewable_source_electricity_generated"`
	TotalElecGenerated    int64  `json:"total_electricity_generated"`
	TotalGasGenerated     int64  `json:"total_gas_generated"`
}

// Dataset feeds a single-series chart. len(Labels) == len(Values).
type Dataset struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Valid reports whether labels and values line up.
func (d Dataset) Valid() bool {
	return len(d.Labels) == len(d.Values)
}

// RegionSummary describes one metric over the loaded years.
type RegionSummary struct {
	Region string  `json:"region"`
	Metric string  `json:"metric"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Years  int     `json:"years"`
}

// Status is served by /api/status.
type Status struct {
	Loaded    bool   `json:"loaded"`
	Source    string `json:"source"`
	Records   int    `json:"records"`
	LoadedAt  string `json:"loaded_at,omitempty"`
	RSSBytes  uint64 `json:"rss_bytes"`
	LastError string `json:"last_error,omitempty"`
}
