package engine

import (
	"energydash/internal/models"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// fixture values are derived from region id and start year so tests can
// recompute them.
func fixtureUse(regionID, year int) float64 { return float64(regionID*1000+year-2000) + 0.4 }
func fixtureGen(regionID, year int) float64 { return float64(regionID*500 + year - 2000) }
func fixtureGasMcm(regionID, year int) float64 {
	return float64(regionID*100 + year - 2000)
}

var fixtureYears = []int{2006, 2007, 2008, 2009, 2010, 2011, 2012, 2013, 2014, 2015, 2016, 2017, 2018, 2019, 2020}

func financialYear(y int) string {
	return fmt.Sprintf("%d-%02d", y, (y+1)%100)
}

func newSheet(t *testing.T, f *excelize.File, name string) {
	t.Helper()
	if _, err := f.NewSheet(name); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 4; i++ {
		if err := f.SetCellValue(name, fmt.Sprintf("A%d", i), "Australian Energy Statistics"); err != nil {
			t.Fatal(err)
		}
	}
}

func setRow(t *testing.T, f *excelize.File, sheet string, row int, vals []interface{}) {
	t.Helper()
	if err := f.SetSheetRow(sheet, fmt.Sprintf("B%d", row), &vals); err != nil {
		t.Fatal(err)
	}
}

// writeYearSheet lays out financial years down column B, regions across.
func writeYearSheet(t *testing.T, f *excelize.File, sheet, unit string, skip string, value func(int, int) float64) {
	t.Helper()
	newSheet(t, f, sheet)
	header := []interface{}{""}
	units := []interface{}{""}
	for _, r := range models.Regions {
		if r.Name == skip {
			continue
		}
		header = append(header, r.Name)
		units = append(units, unit)
	}
	setRow(t, f, sheet, 5, header)
	setRow(t, f, sheet, 6, units)
	row := 7
	for _, y := range fixtureYears {
		vals := []interface{}{financialYear(y)}
		for _, r := range models.Regions {
			if r.Name == skip {
				continue
			}
			vals = append(vals, value(r.ID, y))
		}
		setRow(t, f, sheet, row, vals)
		row++
	}
	setRow(t, f, sheet, row+1, []interface{}{"Notes: figures may not add due to rounding"})
	setRow(t, f, sheet, row+2, []interface{}{"Source: Department of Climate Change"})
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	l := excelize.NewFile()
	writeYearSheet(t, l, "Aus", "GWh", "", fixtureUse)
	if err := l.SaveAs(filepath.Join(dir, TableLFile)); err != nil {
		t.Fatal(err)
	}

	o := excelize.NewFile()
	for _, r := range models.Regions {
		sheet := r.Abbrev + " FY"
		newSheet(t, o, sheet)
		header := []interface{}{""}
		for _, y := range fixtureYears {
			header = append(header, financialYear(y))
		}
		setRow(t, o, sheet, 5, header)
		sources := []struct {
			label string
			scale float64
		}{
			{"Coal", 0.5},
			{"Total non-renewable", 0.75},
			{"Total renewable", 0.25},
			{"Total", 1},
		}
		for i, s := range sources {
			vals := []interface{}{s.label}
			for _, y := range fixtureYears {
				vals = append(vals, fixtureGen(r.ID, y)*s.scale)
			}
			setRow(t, o, sheet, 6+i, vals)
		}
	}
	if err := o.SaveAs(filepath.Join(dir, TableOFile)); err != nil {
		t.Fatal(err)
	}

	q := excelize.NewFile()
	writeYearSheet(t, q, "Consumption physical units", "Mcm", "", fixtureGasMcm)
	writeYearSheet(t, q, "Production physical units", "Mcm", "Tasmania", func(id, y int) float64 {
		return fixtureGasMcm(id, y) * 2
	})
	if err := q.SaveAs(filepath.Join(dir, TableQFile)); err != nil {
		t.Fatal(err)
	}
	return dir
}
