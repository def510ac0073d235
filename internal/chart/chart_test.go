package chart

import (
	"context"
	"energydash/internal/models"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
)

type recordingFactory struct {
	calls  int
	canvas string
	cfg    Config
	err    error
}

func (f *recordingFactory) NewChart(canvasID string, cfg Config) error {
	f.calls++
	f.canvas = canvasID
	f.cfg = cfg
	return f.err
}

func TestEmptyFetcher(t *testing.T) {
	ds, err := EmptyFetcher{}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Labels) != len(ds.Values) || len(ds.Labels) != 0 {
		t.Errorf("Expected two empty sequences, got %s", spew.Sdump(ds))
	}
}

func TestRenderBuildsBarChartOnce(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(EmptyFetcher{}, f, "chart1")
	if err := r.Render(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.calls != 1 {
		t.Fatalf("Expected 1 chart construction, got %d", f.calls)
	}
	if f.canvas != "chart1" {
		t.Errorf("Expected canvas chart1, got %q", f.canvas)
	}
	if f.cfg.Type != "bar" || !f.cfg.Options.Scales.Y.BeginAtZero {
		t.Errorf("Unexpected config %s", spew.Sdump(f.cfg))
	}
	if len(f.cfg.Data.Datasets) != 1 || f.cfg.Data.Datasets[0].Label != "electricity" {
		t.Errorf("Expected a single electricity series, got %s", spew.Sdump(f.cfg.Data.Datasets))
	}
	if f.cfg.Data.Datasets[0].BorderWidth != 1 {
		t.Errorf("Expected border width 1, got %d", f.cfg.Data.Datasets[0].BorderWidth)
	}
}

func TestRenderErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &recordingFactory{}
	r := NewRenderer(FetcherFunc(func(context.Context) (models.Dataset, error) {
		return models.Dataset{}, boom
	}), f, "chart1")
	if err := r.Render(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected fetch error, got %v", err)
	}
	if f.calls != 0 {
		t.Errorf("Chart built despite fetch failure")
	}

	r.Fetcher = FetcherFunc(func(context.Context) (models.Dataset, error) {
		return models.Dataset{Labels: []string{"a", "b"}, Values: []float64{1}}, nil
	})
	if err := r.Render(context.Background()); !errors.Is(err, ErrInvalidDataset) {
		t.Errorf("Expected ErrInvalidDataset, got %v", err)
	}

	missing := errors.New("canvas chart1 not found")
	f.err = missing
	r.Fetcher = EmptyFetcher{}
	if err := r.Render(context.Background()); !errors.Is(err, missing) {
		t.Errorf("Expected factory error unchanged, got %v", err)
	}
}

func TestConfigJSON(t *testing.T) {
	b, err := json.Marshal(BarConfig(SeriesLabel, models.Dataset{}))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"bar","data":{"labels":[],"datasets":[{"label":"electricity","data":[],"borderWidth":1}]},"options":{"scales":{"y":{"beginAtZero":true}}}}`
	if string(b) != want {
		t.Errorf("Unexpected JSON\n got: %s\nwant: %s", b, want)
	}
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chart/dataset" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"labels":["2009","2010"],"values":[1.5,2]}`))
	}))
	defer srv.Close()

	ds, err := HTTPFetcher{URL: srv.URL + "/api/chart/dataset"}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Labels) != 2 || ds.Values[0] != 1.5 {
		t.Errorf("Unexpected dataset %s", spew.Sdump(ds))
	}

	if _, err := (HTTPFetcher{URL: srv.URL + "/nope"}).Fetch(context.Background()); err == nil {
		t.Error("Expected error for 404")
	}
}
