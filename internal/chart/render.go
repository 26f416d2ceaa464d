// Package chart renders the dashboard's output slots as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"launch-dashboard/internal/model"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Renderer turns slots into PNG charts.
type Renderer struct {
	width   int
	height  int
	printer *message.Printer
}

// NewRenderer returns a renderer producing width x height images. Non-positive
// sizes fall back to the defaults.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{
		width:   width,
		height:  height,
		printer: message.NewPrinter(language.English),
	}
}

// Size returns the image dimensions.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// BreakdownTitle is the pie chart title for sel.
func BreakdownTitle(sel model.SiteSelector) string {
	if sel.Kind == model.SelectSite {
		return "Successful Launches at " + sel.Site
	}
	return "Total Successful Launches by Site"
}

// ScatterTitle is the scatter chart title for sel.
func ScatterTitle(sel model.SiteSelector) string {
	if sel.Kind == model.SelectSite {
		return "Payload vs. Outcome at " + sel.Site
	}
	return "Payload vs. Outcome"
}

// OutcomeLabel names an outcome-class key.
func OutcomeLabel(key string) string {
	switch key {
	case "1":
		return "Success"
	case "0":
		return "Failure"
	default:
		return key
	}
}

// Breakdown renders the success breakdown as a pie chart, or a placeholder
// when the slot is stale, failed or empty.
func (r *Renderer) Breakdown(slot model.BreakdownSlot) ([]byte, error) {
	title := BreakdownTitle(slot.Site)
	switch {
	case slot.State == model.SlotStale:
		return r.Placeholder(title, "Waiting for first render")
	case slot.State == model.SlotError:
		return r.Placeholder(title, "Invalid selection: "+slot.Error)
	case slot.NoData || slot.View.NoData():
		return r.Placeholder(title, noDataMessage)
	}

	var values []chart.Value
	for _, e := range slot.View.Entries {
		if e.Count <= 0 {
			continue // zero-count slices make the pie degenerate
		}
		label := e.Key
		if slot.View.GroupBy == model.GroupByOutcome {
			label = OutcomeLabel(e.Key)
		}
		values = append(values, chart.Value{
			Value: float64(e.Count),
			Label: r.printer.Sprintf("%s (%d)", label, e.Count),
		})
	}
	if len(values) == 0 {
		return r.Placeholder(title, "No successful launches for this selection")
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render breakdown chart: %w", err)
	}
	return buf.Bytes(), nil
}

// pointStyle draws markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: col,
		DotWidth:    5,
		DotColor:    col,
	}
}

// Scatter renders payload mass against outcome class with one series per
// booster version category, or a placeholder when the slot is stale, failed
// or empty.
func (r *Renderer) Scatter(slot model.ScatterSlot) ([]byte, error) {
	title := ScatterTitle(slot.Site)
	switch {
	case slot.State == model.SlotStale:
		return r.Placeholder(title, "Waiting for first render")
	case slot.State == model.SlotError:
		return r.Placeholder(title, "Invalid selection: "+slot.Error)
	case slot.NoData || len(slot.Records) == 0:
		return r.Placeholder(title, noDataMessage)
	}

	// Group by booster category, keeping first-seen order for stable colours.
	var order []string
	xs := map[string][]float64{}
	ys := map[string][]float64{}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, rec := range slot.Records {
		cat := rec.BoosterVersionCategory
		if cat == "" {
			cat = "Unknown"
		}
		if _, ok := xs[cat]; !ok {
			order = append(order, cat)
		}
		xs[cat] = append(xs[cat], rec.PayloadMassKg)
		ys[cat] = append(ys[cat], float64(rec.OutcomeClass))
		minX = math.Min(minX, rec.PayloadMassKg)
		maxX = math.Max(maxX, rec.PayloadMassKg)
	}

	series := make([]chart.Series, 0, len(order))
	for i, cat := range order {
		series = append(series, chart.ContinuousSeries{
			Name:    cat,
			XValues: xs[cat],
			YValues: ys[cat],
			Style:   pointStyle(chart.GetDefaultColor(i)),
		})
	}

	pad := math.Max((maxX-minX)*0.05, 100)
	ch := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Payload Mass (kg)",
			Range:          &chart.ContinuousRange{Min: minX - pad, Max: maxX + pad},
			ValueFormatter: r.kgFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "class",
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scatter chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) kgFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return r.printer.Sprintf("%d", int64(math.Round(f)))
	}
	return fmt.Sprintf("%v", v)
}
