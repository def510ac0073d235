package engine

import (
	"energydash/internal/models"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownRegion = errors.New("unknown region")
	ErrUnknownYear   = errors.New("unknown financial year")
)

// round matches the published API, which rounds half to even.
func round(v float64) int64 {
	return int64(math.RoundToEven(v))
}

// Records returns API rows ordered by region id, then year.
// The financial year reported is the end year (start + 1).
func (cs *ColumnStore) Records() []models.EnergyRecord {
	out := make([]models.EnergyRecord, 0, cs.Len())
	for i := 0; i < cs.Len(); i++ {
		out = append(out, models.EnergyRecord{
			Region:                cs.RegionDict[cs.RegionIDs.Value(i)].Name,
			FinancialYear:         int(cs.StartYears.Value(i)) + 1,
			ElectricityUsage:      round(cs.ElecUsage.Value(i)),
			GasUsage:              round(cs.GasUsage.Value(i)),
			NonRenewableGenerated: round(cs.NonRenewable.Value(i)),
			RenewableGenerated:    round(cs.Renewable.Value(i)),
			TotalElecGenerated:    round(cs.ElecTotal.Value(i)),
			TotalGasGenerated:     round(cs.GasTotal.Value(i)),
		})
	}
	return out
}

func (cs *ColumnStore) regionIndex(region string) (int32, error) {
	r, ok := models.LookupRegion(region)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	for i, d := range cs.RegionDict {
		if d.ID == r.ID {
			return int32(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q not loaded", ErrUnknownRegion, region)
}

func (cs *ColumnStore) metricColumn(metric string) ([]float64, error) {
	col := cs.Column(metric)
	if col == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	return col.Float64Values(), nil
}

// RegionSeries returns one metric for a region across the loaded years.
// Labels are financial (end) years.
func (cs *ColumnStore) RegionSeries(metric, region string) (models.Dataset, error) {
	vals, err := cs.metricColumn(metric)
	if err != nil {
		return models.Dataset{}, err
	}
	rid, err := cs.regionIndex(region)
	if err != nil {
		return models.Dataset{}, err
	}
	ds := models.Dataset{Labels: []string{}, Values: []float64{}}
	ids := cs.RegionIDs.Int32Values()
	years := cs.StartYears.Int32Values()
	for j := range ids {
		if ids[j] != rid {
			continue
		}
		ds.Labels = append(ds.Labels, strconv.Itoa(int(years[j])+1))
		ds.Values = append(ds.Values, vals[j])
	}
	return ds, nil
}

// YearSeries returns one metric for every state and territory in a financial
// (end) year, without the national total.
// Labels are region abbreviations, matching the map path ids.
func (cs *ColumnStore) YearSeries(metric string, financialYear int) (models.Dataset, error) {
	vals, err := cs.metricColumn(metric)
	if err != nil {
		return models.Dataset{}, err
	}
	ds := models.Dataset{Labels: []string{}, Values: []float64{}}
	ids := cs.RegionIDs.Int32Values()
	years := cs.StartYears.Int32Values()
	for j := range ids {
		if int(years[j])+1 != financialYear {
			continue
		}
		r := cs.RegionDict[ids[j]]
		if r.Abbrev == "AUS" {
			continue
		}
		ds.Labels = append(ds.Labels, r.Abbrev)
		ds.Values = append(ds.Values, vals[j])
	}
	if len(ds.Labels) == 0 {
		return models.Dataset{}, fmt.Errorf("%w: %d", ErrUnknownYear, financialYear)
	}
	return ds, nil
}

// Summaries computes min/max/mean of a metric for every loaded region.
func (cs *ColumnStore) Summaries(metric string) ([]models.RegionSummary, error) {
	vals, err := cs.metricColumn(metric)
	if err != nil {
		return nil, err
	}
	n := len(cs.RegionDict)
	minV := make([]float64, n)
	maxV := make([]float64, n)
	sum := make([]float64, n)
	count := make([]int, n)

	ids := cs.RegionIDs.Int32Values()
	for j, rid := range ids {
		v := vals[j]
		if count[rid] == 0 || v < minV[rid] {
			minV[rid] = v
		}
		if count[rid] == 0 || v > maxV[rid] {
			maxV[rid] = v
		}
		sum[rid] += v
		count[rid]++
	}

	out := make([]models.RegionSummary, 0, n)
	for i, r := range cs.RegionDict {
		if count[i] == 0 {
			continue
		}
		out = append(out, models.RegionSummary{
			Region: r.Name,
			Metric: metric,
			Min:    minV[i],
			Max:    maxV[i],
			Mean:   sum[i] / float64(count[i]),
			Years:  count[i],
		})
	}
	return out, nil
}
