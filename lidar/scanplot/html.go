package scanplot

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/spatialmath"
)

// WriteHTML writes an interactive page with the obstacle outlines, the sensor positions and the ray
// endpoints of the scan in world coordinates.
func WriteHTML(w io.Writer, title string, ms lidar.Measurements, world []spatialmath.Geometry, maxRange float64) error {
	view := ViewBounds(ms, world, maxRange)
	if view.IsEmpty() {
		return errors.New("nothing to plot")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "x",
			Min:  roundView(view.X.Lo),
			Max:  roundView(view.X.Hi),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "y",
			Min:  roundView(view.Y.Lo),
			Max:  roundView(view.Y.Hi),
		}),
	)

	resolution := outlineResolution * math.Max(view.Size().X, view.Size().Y)
	for _, g := range world {
		name := g.Label()
		if name == "" {
			name = g.String()
		}
		scatter.AddSeries(name, scatterData(g.ToPoints(resolution), ""),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	}

	var hits, misses []opts.ScatterData
	var sensors []r2.Point
	seen := map[r2.Point]bool{}
	for _, m := range ms {
		end := m.Coords()
		item := opts.ScatterData{Value: []interface{}{end.X, end.Y}, Name: m.HitLabel()}
		if m.Hit() {
			hits = append(hits, item)
		} else {
			misses = append(misses, item)
		}
		if origin := m.Origin(); !seen[origin] {
			seen[origin] = true
			sensors = append(sensors, origin)
		}
	}
	scatter.AddSeries("hit", hits, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("max range", misses, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("sensor", scatterData(sensors, "sensor"),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	return scatter.Render(w)
}

func scatterData(pts []r2.Point, name string) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(pts))
	for _, p := range pts {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}, Name: name})
	}
	return data
}

// roundView rounds axis limits outwards to whole units so the chart does not print long decimals.
func roundView(v float64) float64 {
	if v < 0 {
		return math.Floor(v)
	}
	return math.Ceil(v)
}
