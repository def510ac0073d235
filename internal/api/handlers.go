package api

import (
	"bytes"
	"energydash/internal/chart"
	"energydash/internal/engine"
	"energydash/internal/export"
	"energydash/internal/models"
	"energydash/internal/tooltip"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/process"
)

type snapshot struct {
	store    *engine.ColumnStore
	records  []models.EnergyRecord
	source   string
	loadedAt time.Time

	// readers counts requests still using store.
	readers sync.WaitGroup
}

func (s *snapshot) release() { s.readers.Done() }

// retire frees the Arrow buffers once the last reader is done.
func (s *snapshot) retire() {
	s.readers.Wait()
	s.store.Release()
}

// errLoading is answered by every data endpoint until the first load lands.
var errLoading = echo.NewHTTPError(http.StatusServiceUnavailable, map[string]string{"error": "loading"})

type Handler struct {
	mu      sync.RWMutex
	data    *snapshot
	lastErr error
}

// NewHandler returns a handler serving store. A nil store answers 503
// until SetData is called.
func NewHandler(store *engine.ColumnStore, source string) *Handler {
	h := &Handler{}
	if store != nil {
		h.SetData(store, source)
	}
	return h
}

// SetData swaps in a freshly loaded store. The Handler owns store from here
// on; the one it replaces is released after its in-flight requests finish.
func (h *Handler) SetData(store *engine.ColumnStore, source string) {
	s := &snapshot{
		store:    store,
		records:  store.Records(),
		source:   source,
		loadedAt: time.Now(),
	}
	h.mu.Lock()
	old := h.data
	h.data = s
	h.lastErr = nil
	h.mu.Unlock()
	if old != nil {
		go old.retire()
	}
}

// SetError records a failed load; data already being served is kept.
func (h *Handler) SetError(err error) {
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
}

// acquire returns the snapshot being served, or errLoading. Callers must
// release it.
func (h *Handler) acquire() (*snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.data == nil {
		return nil, errLoading
	}
	h.data.readers.Add(1)
	return h.data, nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/get_data", h.GetData)
	api.GET("/regions", h.GetRegions)
	api.GET("/summary", h.GetSummary)
	api.GET("/chart/dataset", h.GetChartDataset)
	api.GET("/chart/config", h.GetChartConfig)
	api.GET("/chart.png", h.GetChartPNG)
	api.GET("/chart.html", h.GetChartHTML)
	api.GET("/report.pdf", h.GetReportPDF)
	api.GET("/tooltip", h.GetTooltip)
	api.GET("/status", h.GetStatus)
}

// --- HELPERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// chartQuery is the dataset selection shared by the chart endpoints.
type chartQuery struct {
	metric string
	region string
	year   int
}

func parseChartQuery(c echo.Context) (chartQuery, error) {
	q := chartQuery{
		metric: c.QueryParam("metric"),
		region: c.QueryParam("region"),
	}
	if q.metric == "" {
		q.metric = engine.MetricElectricityUsage
	}
	if y := c.QueryParam("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return q, echo.NewHTTPError(http.StatusBadRequest, "year must be a number")
		}
		if q.region != "" {
			return q, echo.NewHTTPError(http.StatusBadRequest, "use either region or year, not both")
		}
		q.year = year
	} else if q.region == "" {
		q.region = "Australia"
	}
	return q, nil
}

func (q chartQuery) title() string {
	if q.year != 0 {
		return fmt.Sprintf("%s by region, %d", q.metric, q.year)
	}
	return fmt.Sprintf("%s, %s", q.metric, q.region)
}

func (q chartQuery) series() string {
	if q.metric == engine.MetricElectricityUsage {
		return chart.SeriesLabel
	}
	return q.metric
}

func badQuery(err error) error {
	if errors.Is(err, engine.ErrUnknownMetric) || errors.Is(err, engine.ErrUnknownRegion) || errors.Is(err, engine.ErrUnknownYear) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// dataset resolves the request to a dataset.
func (h *Handler) dataset(c echo.Context) (chartQuery, models.Dataset, error) {
	s, err := h.acquire()
	if err != nil {
		return chartQuery{}, models.Dataset{}, err
	}
	defer s.release()
	q, err := parseChartQuery(c)
	if err != nil {
		return q, models.Dataset{}, err
	}
	var ds models.Dataset
	if q.year != 0 {
		ds, err = s.store.YearSeries(q.metric, q.year)
	} else {
		ds, err = s.store.RegionSeries(q.metric, q.region)
	}
	if err != nil {
		return q, ds, badQuery(err)
	}
	return q, ds, nil
}

// --- HANDLERS ---

// GetData returns every record, optionally paginated.
func (h *Handler) GetData(c echo.Context) error {
	s, err := h.acquire()
	if err != nil {
		return err
	}
	defer s.release()
	recs := s.records
	total := len(recs)
	if c.QueryParam("limit") == "" && c.QueryParam("offset") == "" {
		return c.JSON(http.StatusOK, recs)
	}
	limit, offset := getPaginationParams(c, total)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   recs[start:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetRegions(c echo.Context) error {
	s, err := h.acquire()
	if err != nil {
		return err
	}
	s.release()
	return c.JSON(http.StatusOK, models.Regions)
}

func (h *Handler) GetSummary(c echo.Context) error {
	s, err := h.acquire()
	if err != nil {
		return err
	}
	defer s.release()
	metric := c.QueryParam("metric")
	if metric == "" {
		metric = engine.MetricElectricityUsage
	}
	sums, err := s.store.Summaries(metric)
	if err != nil {
		return badQuery(err)
	}
	return c.JSON(http.StatusOK, sums)
}

func (h *Handler) GetChartDataset(c echo.Context) error {
	_, ds, err := h.dataset(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds)
}

func (h *Handler) GetChartConfig(c echo.Context) error {
	q, ds, err := h.dataset(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chart.BarConfig(q.series(), ds))
}

func (h *Handler) GetChartPNG(c echo.Context) error {
	q, ds, err := h.dataset(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, q.title(), ds); err != nil {
		if errors.Is(err, export.ErrEmptyDataset) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) GetChartHTML(c echo.Context) error {
	q, ds, err := h.dataset(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteHTML(&buf, q.title(), q.series(), ds); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) GetReportPDF(c echo.Context) error {
	q, ds, err := h.dataset(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, q.title(), q.series(), ds); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="energy-report.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// GetTooltip computes placement for clients without script.
func (h *Handler) GetTooltip(c echo.Context) error {
	var nums [4]float64
	for i, name := range []string{"x", "y", "left", "top"} {
		v, err := strconv.ParseFloat(c.QueryParam(name), 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
		}
		nums[i] = v
	}
	region := c.QueryParam("region")
	if region == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "region is required")
	}
	s := tooltip.Place(tooltip.Point{X: nums[0], Y: nums[1]}, tooltip.Rect{Left: nums[2], Top: nums[3]}, region)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"state": s,
		"style": s.CSS(),
	})
}

func (h *Handler) GetStatus(c echo.Context) error {
	st := models.Status{}
	if s, err := h.acquire(); err == nil {
		st.Loaded = true
		st.Source = s.source
		st.Records = len(s.records)
		st.LoadedAt = s.loadedAt.UTC().Format(time.RFC3339)
		s.release()
	}
	h.mu.RLock()
	if h.lastErr != nil {
		st.LastError = h.lastErr.Error()
	}
	h.mu.RUnlock()
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			st.RSSBytes = mi.RSS
		}
	}
	return c.JSON(http.StatusOK, st)
}
