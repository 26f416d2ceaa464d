package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"launch-dashboard/internal/chart"
	"launch-dashboard/internal/controller"
	"launch-dashboard/internal/model"
	"launch-dashboard/internal/pipeline"
	"launch-dashboard/pkg/router"
)

// maxEventBody bounds event request bodies.
const maxEventBody = 1 << 16

// Options carries the page settings.
type Options struct {
	Title      string
	SliderStep float64
}

// SiteOption is one entry of the site dropdown.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DashboardOptions describes the controls offered to the UI.
type DashboardOptions struct {
	Title   string             `json:"title"`
	Sites   []SiteOption       `json:"sites"`
	Bounds  model.PayloadRange `json:"bounds"`
	Step    float64            `json:"step"`
	Marks   []float64          `json:"marks"`
	Site    model.SiteSelector `json:"site"`
	Range   model.PayloadRange `json:"range"`
	Session string             `json:"session_id"`
}

// SiteEvent is the body of POST /events/site.
type SiteEvent struct {
	Site string `json:"site" example:"KSC LC-39A"`
}

// PayloadRangeEvent is the body of POST /events/payload-range.
type PayloadRangeEvent struct {
	Low  *float64 `json:"low" example:"0"`
	High *float64 `json:"high" example:"10000"`
}

// Handler serves the dashboard page and its JSON API.
type Handler struct {
	ctrl  *controller.Controller
	cache *chart.Cache
	opts  Options
	start time.Time
}

// New returns a Handler. The cache must be the controller's publisher.
func New(ctrl *controller.Controller, cache *chart.Cache, opts Options) *Handler {
	if opts.Title == "" {
		opts.Title = "SpaceX Launch Records Dashboard"
	}
	if opts.SliderStep <= 0 {
		opts.SliderStep = 1000
	}
	return &Handler{ctrl: ctrl, cache: cache, opts: opts, start: time.Now()}
}

func (h *Handler) siteOptions() []SiteOption {
	sites := h.ctrl.Dataset().Sites()
	out := make([]SiteOption, 0, len(sites)+1)
	out = append(out, SiteOption{Label: "All Sites", Value: model.AllSitesValue})
	for _, s := range sites {
		out = append(out, SiteOption{Label: s, Value: s})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ encode response: %v", err)
	}
}

// Index serves the dashboard page
// @Summary Dashboard page
// @Description HTML page with the site dropdown, payload range inputs and both charts
// @Tags dashboard
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	snap := h.ctrl.Snapshot()
	ds := h.ctrl.Dataset()
	page := dashboardPage(newPageData(h.opts.Title, h.siteOptions(), snap.Range, ds.Bounds(), h.opts.SliderStep))
	templ.Handler(page).ServeHTTP(w, r)
}

// Healthz reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is up"
// @Router /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"records": h.ctrl.Dataset().Len(),
		"uptime":  time.Since(h.start).Round(time.Second).String(),
	})
}

// GetOptions returns the control settings
// @Summary Dashboard options
// @Description Site enumeration, payload bounds, slider step and marks, plus the current selection
// @Tags dashboard
// @Produce json
// @Success 200 {object} handler.DashboardOptions
// @Router /api/v1/options [get]
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	ds := h.ctrl.Dataset()
	snap := h.ctrl.Snapshot()
	writeJSON(w, http.StatusOK, DashboardOptions{
		Title:   h.opts.Title,
		Sites:   h.siteOptions(),
		Bounds:  ds.Bounds(),
		Step:    h.opts.SliderStep,
		Marks:   ds.Marks(h.opts.SliderStep),
		Site:    snap.Site,
		Range:   snap.Range,
		Session: snap.SessionID,
	})
}

// GetViews returns both output slots
// @Summary Current views
// @Description Current selection and both output slots with their state and revision
// @Tags views
// @Produce json
// @Success 200 {object} model.Snapshot
// @Router /api/v1/views [get]
func (h *Handler) GetViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// PostSiteEvent changes the selected site
// @Summary Select a launch site
// @Description Recomputes the breakdown and scatter views. Use "ALL" for every site.
// @Tags events
// @Accept json
// @Produce json
// @Param event body handler.SiteEvent true "Site selection"
// @Success 200 {object} model.Snapshot
// @Failure 400 {string} string "Invalid request payload"
// @Router /api/v1/events/site [post]
func (h *Handler) PostSiteEvent(w http.ResponseWriter, r *http.Request) {
	var ev SiteEvent
	if err := decodeEvent(w, r, &ev); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	sel, err := model.ParseSiteSelector(ev.Site)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid site: %v", err), http.StatusBadRequest)
		return
	}
	if sel.Kind == model.SelectSite && !h.ctrl.Dataset().HasSite(sel.Site) {
		log.Printf("⚠️ site %q is not in the dataset, views will be empty req=%s", sel.Site, router.RequestID(r))
	}
	log.Printf("🛰️ site event %s req=%s", sel, router.RequestID(r))
	writeJSON(w, http.StatusOK, h.ctrl.SiteChanged(r.Context(), sel))
}

// PostPayloadRangeEvent changes the payload range
// @Summary Select a payload range
// @Description Recomputes the scatter view. The range is clamped to the dataset bounds; an inverted range leaves the previous range in place and puts the scatter view in the error state.
// @Tags events
// @Accept json
// @Produce json
// @Param event body handler.PayloadRangeEvent true "Payload range in kg"
// @Success 200 {object} model.Snapshot
// @Failure 400 {string} string "Invalid request payload"
// @Router /api/v1/events/payload-range [post]
func (h *Handler) PostPayloadRangeEvent(w http.ResponseWriter, r *http.Request) {
	var ev PayloadRangeEvent
	if err := decodeEvent(w, r, &ev); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if ev.Low == nil || ev.High == nil {
		http.Error(w, "Both low and high are required", http.StatusBadRequest)
		return
	}
	rng := model.PayloadRange{Low: *ev.Low, High: *ev.High}
	log.Printf("📏 payload range event %v–%v req=%s", rng.Low, rng.High, router.RequestID(r))
	writeJSON(w, http.StatusOK, h.ctrl.PayloadRangeChanged(r.Context(), rng))
}

func decodeEvent(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// GetBreakdownChart serves the latest breakdown render
// @Summary Breakdown chart
// @Tags charts
// @Produce png
// @Success 200 {file} binary "PNG image"
// @Router /api/v1/charts/breakdown.png [get]
func (h *Handler) GetBreakdownChart(w http.ResponseWriter, r *http.Request) {
	img, ok := h.cache.Breakdown()
	h.servePNG(w, img, ok, chart.BreakdownTitle(h.ctrl.Snapshot().Site))
}

// GetScatterChart serves the latest scatter render
// @Summary Scatter chart
// @Tags charts
// @Produce png
// @Success 200 {file} binary "PNG image"
// @Router /api/v1/charts/scatter.png [get]
func (h *Handler) GetScatterChart(w http.ResponseWriter, r *http.Request) {
	img, ok := h.cache.Scatter()
	h.servePNG(w, img, ok, chart.ScatterTitle(h.ctrl.Snapshot().Site))
}

func (h *Handler) servePNG(w http.ResponseWriter, img chart.Image, ok bool, title string) {
	data := img.PNG
	if !ok {
		var err error
		data, err = h.cache.Renderer().Placeholder(title, "Waiting for first render")
		if err != nil {
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Revision", strconv.FormatUint(img.Revision, 10))
	w.Header().Set("X-Slot-State", img.State.String())
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ write %s chart: %v", title, err)
	}
}

// ExportBreakdown downloads the breakdown view
// @Summary Export breakdown
// @Tags views
// @Produce text/csv,json
// @Param format query string false "csv (default) or json"
// @Success 200 {file} binary "Export file"
// @Failure 400 {string} string "Unsupported format"
// @Failure 409 {string} string "View is not computed"
// @Router /api/v1/views/breakdown/export [get]
func (h *Handler) ExportBreakdown(w http.ResponseWriter, r *http.Request) {
	slot := h.ctrl.Snapshot().Breakdown
	if slot.State != model.SlotComputed {
		http.Error(w, fmt.Sprintf("Breakdown view is %s", slot.State), http.StatusConflict)
		return
	}
	var buf bytes.Buffer
	res, err := pipeline.ExportBreakdown(&buf, r.URL.Query().Get("format"), slot)
	h.serveExport(w, buf.Bytes(), res, err)
}

// ExportScatter downloads the scatter view
// @Summary Export scatter records
// @Tags views
// @Produce text/csv,json
// @Param format query string false "csv (default) or json"
// @Success 200 {file} binary "Export file"
// @Failure 400 {string} string "Unsupported format"
// @Failure 409 {string} string "View is not computed"
// @Router /api/v1/views/scatter/export [get]
func (h *Handler) ExportScatter(w http.ResponseWriter, r *http.Request) {
	slot := h.ctrl.Snapshot().Scatter
	if slot.State != model.SlotComputed {
		http.Error(w, fmt.Sprintf("Scatter view is %s", slot.State), http.StatusConflict)
		return
	}
	var buf bytes.Buffer
	res, err := pipeline.ExportScatter(&buf, r.URL.Query().Get("format"), slot)
	h.serveExport(w, buf.Bytes(), res, err)
}

func (h *Handler) serveExport(w http.ResponseWriter, data []byte, res model.ExportResult, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	contentType := "text/csv"
	if res.Type == pipeline.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s-r%d.%s"`, res.View, res.Revision, res.Type))
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ write %s export: %v", res.View, err)
	}
}

// GetMetrics returns controller metrics
// @Summary Controller metrics
// @Description Event counts and per-view recomputation metrics for this session
// @Tags system
// @Produce json
// @Success 200 {object} model.ControllerMetrics
// @Router /api/v1/metrics [get]
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Metrics())
}
