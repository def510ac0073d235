package export

import (
	"bytes"
	"energydash/internal/chart"
	"energydash/internal/models"
	"errors"
	"strings"
	"testing"
)

var sample = models.Dataset{
	Labels: []string{"NSW", "VIC", "QLD"},
	Values: []float64{70000, 45000, 60000},
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, "Electricity usage", sample); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("Output is not a PNG")
	}
	if err := WritePNG(&buf, "", models.Dataset{}); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, "Electricity usage", chart.SeriesLabel, sample); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "echarts") || !strings.Contains(buf.String(), "NSW") {
		t.Error("Page does not contain the chart")
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, "Electricity usage", chart.SeriesLabel, sample); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("Output is not a PDF")
	}

	buf.Reset()
	if err := WritePDF(&buf, "Empty", chart.SeriesLabel, models.Dataset{}); err != nil {
		t.Fatalf("Empty report failed: %v", err)
	}
}
