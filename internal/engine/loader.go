package engine

import (
	"energydash/internal/models"
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// Year window of the published tables. Table O starts in 2008 and the
// end is exclusive so the last start year is 2019 (pre-covid).
const (
	CutoffYearStart = 2008
	CutoffYearEnd   = 2020
)

// McmToPJ converts million cubic metres of gas to petajoules (37.9 MJ/m3).
const McmToPJ = 0.0379

// Default workbook names in the data directory.
const (
	TableLFile = "Australian Energy Statistics 2022 Table L.xlsx"
	TableOFile = "Australian Energy Statistics 2022 Table O.xlsx"
	TableQFile = "Australian Energy Statistics 2022 Table Q.xlsx"
)

// headerRow is the 0-based row holding column titles (4 rows of preamble).
const headerRow = 4

var ErrMissingValue = errors.New("missing value")

// yearTable maps start year -> column title -> value.
type yearTable map[int]map[string]float64

func (t yearTable) get(year int, col string) (float64, bool) {
	row, ok := t[year]
	if !ok {
		return 0, false
	}
	v, ok := row[col]
	return v, ok
}

// --- 1. PARSERS ---

// parseStartYear parses "2008-09" -> 2008
func parseStartYear(s string) (int, bool) {
	start, _, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found || len(start) != 4 {
		return 0, false
	}
	y, err := strconv.Atoi(start)
	if err != nil {
		return 0, false
	}
	return y, true
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" || s == "na" || s == "n.a." {
		return 0, ErrMissingValue
	}
	return strconv.ParseFloat(s, 64)
}

func inWindow(year int) bool {
	return CutoffYearStart <= year && year < CutoffYearEnd
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// --- 2. SHEET READERS ---

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("sheet %q: no header row", sheet)
	}
	return rows, nil
}

// readYearRows reads a sheet with financial years down column B and one
// titled column per region from column C on. Unit and note rows are skipped
// because their column B is not a financial year.
func readYearRows(f *excelize.File, sheet string, scale float64) (yearTable, error) {
	rows, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}
	header := rows[headerRow]
	out := make(yearTable)
	for n, row := range rows[headerRow+1:] {
		year, ok := parseStartYear(cell(row, 1))
		if !ok || !inWindow(year) {
			continue
		}
		vals := make(map[string]float64)
		for c := 2; c < len(header); c++ {
			title := strings.TrimSpace(header[c])
			if title == "" {
				continue
			}
			v, err := parseNumber(cell(row, c))
			if errors.Is(err, ErrMissingValue) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d column %q: %w", sheet, headerRow+n+2, title, err)
			}
			if scale != 1 {
				v = round3(v * scale)
			}
			vals[title] = v
		}
		out[year] = vals
	}
	return out, nil
}

// readSourceRows reads a generation sheet: source labels down column B and
// one column per financial year. Only the listed source rows are kept.
func readSourceRows(f *excelize.File, sheet string, sources ...string) (yearTable, error) {
	rows, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}
	header := rows[headerRow]
	want := make(map[string]bool, len(sources))
	for _, s := range sources {
		want[s] = true
	}
	out := make(yearTable)
	for _, row := range rows[headerRow+1:] {
		src := strings.TrimSpace(cell(row, 1))
		if !want[src] {
			continue
		}
		for c := 2; c < len(header); c++ {
			year, ok := parseStartYear(header[c])
			if !ok || !inWindow(year) {
				continue
			}
			v, err := parseNumber(cell(row, c))
			if errors.Is(err, ErrMissingValue) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("sheet %q source %q year %d: %w", sheet, src, year, err)
			}
			if out[year] == nil {
				out[year] = make(map[string]float64)
			}
			out[year][src] = v
		}
	}
	return out, nil
}

// --- 3. TABLES ---

// Table L: electricity consumption (GWh)
func loadTableL(path string) (yearTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readYearRows(f, "Aus", 1)
}

const (
	sourceNonRenewable = "Total non-renewable"
	sourceRenewable    = "Total renewable"
	sourceTotal        = "Total"
)

// Table O: electricity generation (GWh), one sheet per region abbreviation
func loadTableO(path string) (map[string]yearTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out := make(map[string]yearTable, len(models.Regions))
	for _, r := range models.Regions {
		t, err := readSourceRows(f, r.Abbrev+" FY", sourceNonRenewable, sourceRenewable, sourceTotal)
		if err != nil {
			return nil, err
		}
		out[r.Abbrev] = t
	}
	return out, nil
}

// Table Q: gas consumption and production, converted from Mcm to PJ.
// Production has no Tasmania column; it reads as 0.
func loadTableQ(path string) (consumption, production yearTable, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	consumption, err = readYearRows(f, "Consumption physical units", McmToPJ)
	if err != nil {
		return nil, nil, err
	}
	production, err = readYearRows(f, "Production physical units", McmToPJ)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range production {
		if _, ok := row["Tasmania"]; !ok {
			row["Tasmania"] = 0
		}
	}
	return consumption, production, nil
}

// --- 4. MAIN LOADER ---

// LoadWorkbooks reads Tables L, O and Q from dir in parallel and joins them
// into one observation per region and start year.
func LoadWorkbooks(dir string) (*ColumnStore, error) {
	start := time.Now()
	log.Println("Loading workbooks from", dir)

	var (
		elecUse        yearTable
		elecGen        map[string]yearTable
		gasUse, gasGen yearTable
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		elecUse, err = loadTableL(filepath.Join(dir, TableLFile))
		if err != nil {
			err = fmt.Errorf("table L: %w", err)
		}
		return err
	})
	g.Go(func() (err error) {
		elecGen, err = loadTableO(filepath.Join(dir, TableOFile))
		if err != nil {
			err = fmt.Errorf("table O: %w", err)
		}
		return err
	})
	g.Go(func() (err error) {
		gasUse, gasGen, err = loadTableQ(filepath.Join(dir, TableQFile))
		if err != nil {
			err = fmt.Errorf("table Q: %w", err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	obs, err := join(elecUse, elecGen, gasUse, gasGen)
	if err != nil {
		return nil, err
	}
	store := NewColumnStore(obs)
	log.Printf("Load Complete. Rows: %d. Time: %v", store.Len(), time.Since(start))
	return store, nil
}

func join(elecUse yearTable, elecGen map[string]yearTable, gasUse, gasGen yearTable) ([]models.Observation, error) {
	obs := make([]models.Observation, 0, len(models.Regions)*(CutoffYearEnd-CutoffYearStart))
	for _, r := range models.Regions {
		gen := elecGen[r.Abbrev]
		for year := CutoffYearStart; year < CutoffYearEnd; year++ {
			o := models.Observation{RegionID: r.ID, StartYear: year}
			fields := []struct {
				dst   *float64
				table yearTable
				col   string
				what  string
			}{
				{&o.ElectricityUsage, elecUse, r.Name, "electricity usage"},
				{&o.GasUsage, gasUse, r.Name, "gas usage"},
				{&o.NonRenewableElec, gen, sourceNonRenewable, "non-renewable generation"},
				{&o.RenewableElec, gen, sourceRenewable, "renewable generation"},
				{&o.TotalElecGenerate, gen, sourceTotal, "total generation"},
				{&o.TotalGasGenerate, gasGen, r.Name, "gas generation"},
			}
			for _, fl := range fields {
				v, ok := fl.table.get(year, fl.col)
				if !ok {
					return nil, fmt.Errorf("%s %s %d: %w", r.Name, fl.what, year, ErrMissingValue)
				}
				*fl.dst = v
			}
			obs = append(obs, o)
		}
	}
	return obs, nil
}
