package engine

import (
	"energydash/internal/models"
	"sort"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// Metric names, as used in the API JSON keys.
const (
	MetricElectricityUsage = "electricity_usage"
	MetricGasUsage         = "gas_usage"
	MetricNonRenewable     = "non_renewable_source_electricity_generated"
	MetricRenewable        = "renewable_source_electricity_generated"
	MetricTotalElectricity = "total_electricity_generated"
	MetricTotalGas         = "total_gas_generated"
)

// Metrics lists every metric in API order.
var Metrics = []string{
	MetricElectricityUsage,
	MetricGasUsage,
	MetricNonRenewable,
	MetricRenewable,
	MetricTotalElectricity,
	MetricTotalGas,
}

// ColumnStore holds data in Struct-of-Arrays format, one Arrow array per column.
// Rows are sorted by region id, then start year.
type ColumnStore struct {
	// Dictionary Encoded IDs (index into RegionDict)
	RegionIDs  *array.Int32
	StartYears *array.Int32

	// Data Columns
	ElecUsage    *array.Float64
	GasUsage     *array.Float64
	NonRenewable *array.Float64
	Renewable    *array.Float64
	ElecTotal    *array.Float64
	GasTotal     *array.Float64

	// Dictionary (ID -> Region)
	RegionDict []models.Region
}

// NewColumnStore builds the column arrays from row observations.
func NewColumnStore(obs []models.Observation) *ColumnStore {
	return NewColumnStoreWith(memory.NewGoAllocator(), obs)
}

// NewColumnStoreWith is NewColumnStore with the arrays allocated from mem.
func NewColumnStoreWith(mem memory.Allocator, obs []models.Observation) *ColumnStore {
	rows := make([]models.Observation, len(obs))
	copy(rows, obs)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RegionID != rows[j].RegionID {
			return rows[i].RegionID < rows[j].RegionID
		}
		return rows[i].StartYear < rows[j].StartYear
	})

	dict := make([]models.Region, 0, len(models.Regions))
	dictIdx := make(map[int]int32)

	regB := array.NewInt32Builder(mem)
	yearB := array.NewInt32Builder(mem)
	floatB := make([]*array.Float64Builder, len(Metrics))
	for i := range floatB {
		floatB[i] = array.NewFloat64Builder(mem)
	}
	defer func() {
		regB.Release()
		yearB.Release()
		for _, b := range floatB {
			b.Release()
		}
	}()

	regB.Reserve(len(rows))
	yearB.Reserve(len(rows))
	for _, o := range rows {
		id, ok := dictIdx[o.RegionID]
		if !ok {
			r := regionByID(o.RegionID)
			id = int32(len(dict))
			dict = append(dict, r)
			dictIdx[o.RegionID] = id
		}
		regB.Append(id)
		yearB.Append(int32(o.StartYear))
		floatB[0].Append(o.ElectricityUsage)
		floatB[1].Append(o.GasUsage)
		floatB[2].Append(o.NonRenewableElec)
		floatB[3].Append(o.RenewableElec)
		floatB[4].Append(o.TotalElecGenerate)
		floatB[5].Append(o.TotalGasGenerate)
	}

	return &ColumnStore{
		RegionIDs:    regB.NewInt32Array(),
		StartYears:   yearB.NewInt32Array(),
		ElecUsage:    floatB[0].NewFloat64Array(),
		GasUsage:     floatB[1].NewFloat64Array(),
		NonRenewable: floatB[2].NewFloat64Array(),
		Renewable:    floatB[3].NewFloat64Array(),
		ElecTotal:    floatB[4].NewFloat64Array(),
		GasTotal:     floatB[5].NewFloat64Array(),
		RegionDict:   dict,
	}
}

func regionByID(id int) models.Region {
	for _, r := range models.Regions {
		if r.ID == id {
			return r
		}
	}
	return models.Region{ID: id}
}

// Len is the number of region/year rows.
func (cs *ColumnStore) Len() int {
	if cs == nil || cs.RegionIDs == nil {
		return 0
	}
	return cs.RegionIDs.Len()
}

// Column returns the array holding a metric, or nil for unknown names.
func (cs *ColumnStore) Column(metric string) *array.Float64 {
	switch metric {
	case MetricElectricityUsage:
		return cs.ElecUsage
	case MetricGasUsage:
		return cs.GasUsage
	case MetricNonRenewable:
		return cs.NonRenewable
	case MetricRenewable:
		return cs.Renewable
	case MetricTotalElectricity:
		return cs.ElecTotal
	case MetricTotalGas:
		return cs.GasTotal
	}
	return nil
}

// Row rebuilds the observation at index i.
func (cs *ColumnStore) Row(i int) models.Observation {
	return models.Observation{
		RegionID:          cs.RegionDict[cs.RegionIDs.Value(i)].ID,
		StartYear:         int(cs.StartYears.Value(i)),
		ElectricityUsage:  cs.ElecUsage.Value(i),
		GasUsage:          cs.GasUsage.Value(i),
		NonRenewableElec:  cs.NonRenewable.Value(i),
		RenewableElec:     cs.Renewable.Value(i),
		TotalElecGenerate: cs.ElecTotal.Value(i),
		TotalGasGenerate:  cs.GasTotal.Value(i),
	}
}

// Observations returns every row.
func (cs *ColumnStore) Observations() []models.Observation {
	out := make([]models.Observation, cs.Len())
	for i := range out {
		out[i] = cs.Row(i)
	}
	return out
}

// Release frees the Arrow buffers.
func (cs *ColumnStore) Release() {
	if cs == nil || cs.RegionIDs == nil {
		return
	}
	cs.RegionIDs.Release()
	cs.StartYears.Release()
	cs.ElecUsage.Release()
	cs.GasUsage.Release()
	cs.NonRenewable.Release()
	cs.Renewable.Release()
	cs.ElecTotal.Release()
	cs.GasTotal.Release()
}
