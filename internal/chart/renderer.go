package chart

import (
	"context"
	"energydash/internal/models"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

var ErrInvalidDataset = errors.New("labels and values differ in length")

// Fetcher supplies the dataset a chart is drawn from.
type Fetcher interface {
	Fetch(ctx context.Context) (models.Dataset, error)
}

// Factory creates a chart widget on a canvas.
type Factory interface {
	NewChart(canvasID string, cfg Config) error
}

// EmptyFetcher always returns two empty sequences.
type EmptyFetcher struct{}

func (EmptyFetcher) Fetch(context.Context) (models.Dataset, error) {
	return models.Dataset{Labels: []string{}, Values: []float64{}}, nil
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (models.Dataset, error)

func (f FetcherFunc) Fetch(ctx context.Context) (models.Dataset, error) { return f(ctx) }

// HTTPFetcher reads a dataset from the dashboard API.
type HTTPFetcher struct {
	Client *http.Client
	URL    string
}

func (h HTTPFetcher) Fetch(ctx context.Context) (models.Dataset, error) {
	var ds models.Dataset
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return ds, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return ds, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ds, fmt.Errorf("GET %s: %s", h.URL, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return ds, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// Renderer draws the dashboard bar chart once its data arrives.
type Renderer struct {
	Fetcher  Fetcher
	Factory  Factory
	CanvasID string
	Label    string
}

// NewRenderer returns a renderer for the "electricity" series on canvasID.
func NewRenderer(f Fetcher, factory Factory, canvasID string) *Renderer {
	return &Renderer{Fetcher: f, Factory: factory, CanvasID: canvasID, Label: SeriesLabel}
}

// Render awaits the dataset, then constructs the chart exactly once.
// Factory errors (such as a missing canvas) are returned unchanged.
func (r *Renderer) Render(ctx context.Context) error {
	ds, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch dataset: %w", err)
	}
	if !ds.Valid() {
		return fmt.Errorf("%w: %d labels, %d values", ErrInvalidDataset, len(ds.Labels), len(ds.Values))
	}
	label := r.Label
	if label == "" {
		label = SeriesLabel
	}
	return r.Factory.NewChart(r.CanvasID, BarConfig(label, ds))
}
