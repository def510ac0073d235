// Package export renders datasets as files: PNG, standalone HTML and PDF.
package export

import (
	"bytes"
	"energydash/internal/chart"
	"energydash/internal/models"
	"errors"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jung-kurt/gofpdf"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var ErrEmptyDataset = errors.New("dataset has no bars")

// PNG size in pixels.
const (
	pngWidth  = 1024
	pngHeight = 512
)

// WritePNG draws ds as a zero-based bar chart.
func WritePNG(w io.Writer, title string, ds models.Dataset) error {
	if !ds.Valid() {
		return chart.ErrInvalidDataset
	}
	if len(ds.Values) == 0 {
		return ErrEmptyDataset
	}
	bars := make([]gochart.Value, 0, len(ds.Values))
	top := 0.0
	for i, v := range ds.Values {
		bars = append(bars, gochart.Value{Label: ds.Labels[i], Value: v})
		if v > top {
			top = v
		}
	}
	if top == 0 {
		top = 1
	}

	graph := gochart.BarChart{
		Title:  title,
		Width:  pngWidth,
		Height: pngHeight,
		Background: gochart.Style{
			Padding: gochart.Box{
				Top: 40,
			},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
		Bars: bars,
	}
	return graph.Render(gochart.PNG, w)
}

// WriteHTML writes a standalone ECharts page for ds.
func WriteHTML(w io.Writer, title, series string, ds models.Dataset) error {
	if !ds.Valid() {
		return chart.ErrInvalidDataset
	}
	items := make([]opts.BarData, 0, len(ds.Values))
	for _, v := range ds.Values {
		items = append(items, opts.BarData{Value: v})
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0}),
	)
	bar.SetXAxis(ds.Labels).AddSeries(series, items)
	return bar.Render(w)
}

// WritePDF writes a one-page report: the bar chart and a table of values.
func WritePDF(w io.Writer, title, series string, ds models.Dataset) error {
	if !ds.Valid() {
		return chart.ErrInvalidDataset
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(ds.Values) > 0 {
		var img bytes.Buffer
		if err := WritePNG(&img, "", ds); err != nil {
			return err
		}
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("chart", imgOpts, &img)
		pdf.ImageOptions("chart", 10, pdf.GetY(), 190, 0, true, imgOpts, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 7, "Label", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, series, "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(ds.Values) == 0 {
		pdf.CellFormat(190, 7, "No data", "1", 1, "C", false, 0, "")
	}
	for i, v := range ds.Values {
		pdf.CellFormat(95, 7, ds.Labels[i], "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, strconv.FormatFloat(v, 'f', 2, 64), "1", 1, "R", false, 0, "")
	}
	return pdf.Output(w)
}
