package chart

import "energydash/internal/models"

// SeriesLabel names the single series of the dashboard chart.
const SeriesLabel = "electricity"

// TypeBar is the chart.js type used for every dashboard chart.
const TypeBar = "bar"

// Config mirrors the chart.js constructor argument:
// new Chart(ctx, {type, data, options}).
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []DataSet `json:"datasets"`
}

type DataSet struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderWidth int       `json:"borderWidth"`
}

type Options struct {
	Scales Scales `json:"scales"`
}

type Scales struct {
	Y Axis `json:"y"`
}

type Axis struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// BarConfig builds a one-series bar chart with a zero-based y axis.
func BarConfig(label string, ds models.Dataset) Config {
	labels := ds.Labels
	if labels == nil {
		labels = []string{}
	}
	values := ds.Values
	if values == nil {
		values = []float64{}
	}
	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: labels,
			Datasets: []DataSet{{
				Label:       label,
				Data:        values,
				BorderWidth: 1,
			}},
		},
		Options: Options{
			Scales: Scales{Y: Axis{BeginAtZero: true}},
		},
	}
}
