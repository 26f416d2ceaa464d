package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"launch-dashboard/internal/model"
)

// pageData is everything the dashboard page needs at first paint; the
// script keeps it current through the JSON API.
type pageData struct {
	Title string
	Sites []SiteOption
	Low   float64
	High  float64
	Min   float64
	Max   float64
	Step  float64
}

// dashboardPage renders the single-page dashboard: site dropdown, breakdown
// chart, payload range inputs and scatter chart.
func dashboardPage(d pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]
		num := func(v float64) string { return esc(strconv.FormatFloat(v, 'f', -1, 64)) }

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 24px; }
h1 { text-align: center; color: #503D36; font-size: 40px; }
select { width: 80%%; padding: 4px; }
.chart img { max-width: 100%%; display: block; margin: 12px 0; }
.range input[type=number] { width: 8em; }
</style>
</head>
<body>
<h1>%s</h1>
<select id="site-dropdown" aria-label="Select a Launch Site">
`, esc(d.Title), esc(d.Title)); err != nil {
			return err
		}

		for _, s := range d.Sites {
			if _, err := fmt.Fprintf(w, "<option value=\"%s\">%s</option>\n", esc(s.Value), esc(s.Label)); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, `</select>
<div class="chart"><img id="success-pie-chart" src="/api/v1/charts/breakdown.png" alt="success breakdown"></div>
<p>Payload range (Kg):</p>
<div class="range">
<input id="payload-low" type="number" min="%[1]s" max="%[2]s" step="%[3]s" value="%[4]s">
<input id="payload-high" type="number" min="%[1]s" max="%[2]s" step="%[3]s" value="%[5]s">
<button id="payload-apply">Apply</button>
<span id="scatter-status"></span>
</div>
<div class="chart"><img id="success-payload-scatter-chart" src="/api/v1/charts/scatter.png" alt="payload vs outcome"></div>
<p><a href="/api/v1/views/scatter/export?format=csv">Download scatter CSV</a> |
<a href="/api/v1/views/breakdown/export?format=json">Download breakdown JSON</a></p>
<script>
function refresh(view) {
  document.getElementById("success-pie-chart").src = "/api/v1/charts/breakdown.png?r=" + view.breakdown.revision;
  document.getElementById("success-payload-scatter-chart").src = "/api/v1/charts/scatter.png?r=" + view.scatter.revision;
  document.getElementById("payload-low").value = view.range.low;
  document.getElementById("payload-high").value = view.range.high;
  document.getElementById("scatter-status").textContent = view.scatter.error || "";
}
function post(path, body) {
  return fetch(path, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)})
    .then(function (r) { return r.ok ? r.json() : r.text().then(function (t) { throw new Error(t); }); })
    .then(refresh)
    .catch(function (e) { document.getElementById("scatter-status").textContent = e.message; });
}
document.getElementById("site-dropdown").addEventListener("change", function (e) {
  post("/api/v1/events/site", {site: e.target.value});
});
document.getElementById("payload-apply").addEventListener("click", function () {
  post("/api/v1/events/payload-range", {
    low: parseFloat(document.getElementById("payload-low").value),
    high: parseFloat(document.getElementById("payload-high").value)
  });
});
</script>
</body>
</html>
`, num(d.Min), num(d.Max), num(d.Step), num(d.Low), num(d.High))
		return err
	})
}

func newPageData(title string, sites []SiteOption, current model.PayloadRange, bounds model.PayloadRange, step float64) pageData {
	return pageData{
		Title: title,
		Sites: sites,
		Low:   current.Low,
		High:  current.High,
		Min:   bounds.Low,
		Max:   bounds.High,
		Step:  step,
	}
}
