// Package scanplot renders scans and the obstacles behind them as PNG plots or interactive HTML.
// It only reads the measurements and obstacles it is given.
package scanplot

import (
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/spatialmath"
)

const (
	plotSize = 8 * vg.Inch
	// rangeRings is how many concentric range circles the polar plot draws.
	rangeRings = 4
	// outlineResolution is the fraction of the view extent between outline samples of curved obstacles.
	outlineResolution = 0.005
	// marginRatio pads the obstacle map beyond everything it has to show.
	marginRatio = 0.1
)

var (
	hitColor    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	missColor   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	sensorColor = color.RGBA{G: 160, A: 255}
	ringColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// SavePolar saves the scan as seen from the sensor: every ray endpoint relative to the sensor,
// inside range rings spaced evenly out to maxRange. The image format follows the file extension.
func SavePolar(path string, ms lidar.Measurements, maxRange float64) error {
	if maxRange <= 0 || math.IsNaN(maxRange) || math.IsInf(maxRange, 0) {
		return errors.Errorf("cannot plot a scan with max range %v", maxRange)
	}
	p := plot.New()
	p.Title.Text = "Scan"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	for i := 1; i <= rangeRings; i++ {
		ring, err := plotter.NewLine(circleXYs(r2.Point{}, maxRange*float64(i)/rangeRings, 0))
		if err != nil {
			return err
		}
		ring.LineStyle.Color = ringColor
		ring.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(ring)
	}

	hits, misses := splitOffsets(ms)
	if err := addPoints(p, "hit", hits, hitColor, 1.5); err != nil {
		return err
	}
	if err := addPoints(p, "max range", misses, missColor, 1); err != nil {
		return err
	}
	if err := addPoints(p, "sensor", plotter.XYs{{}}, sensorColor, 3); err != nil {
		return err
	}

	limit := maxRange * (1 + marginRatio)
	setLimits(p, r2.RectFromCenterSize(r2.Point{}, r2.Point{X: 2 * limit, Y: 2 * limit}))
	return p.Save(plotSize, plotSize, path)
}

// SaveObstacleMap saves a top down map of the world with every obstacle outline, the sensor
// positions and the ray endpoints. The view covers the sensors' range and every obstacle.
func SaveObstacleMap(path string, ms lidar.Measurements, world []spatialmath.Geometry, maxRange float64) error {
	view := ViewBounds(ms, world, maxRange)
	if view.IsEmpty() {
		return errors.New("nothing to plot")
	}
	p := plot.New()
	p.Title.Text = "Obstacle map"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	resolution := outlineResolution * math.Max(view.Size().X, view.Size().Y)
	for i, g := range world {
		outline, err := plotter.NewLine(toXYs(g.ToPoints(resolution)))
		if err != nil {
			return errors.Wrapf(err, "outlining %v", g)
		}
		outline.LineStyle.Color = plotutil.Color(i)
		outline.LineStyle.Width = vg.Points(1.5)
		p.Add(outline)
		if label := g.Label(); label != "" {
			p.Legend.Add(label, outline)
		}
	}

	var hits, misses, sensors plotter.XYs
	seen := map[r2.Point]bool{}
	for _, m := range ms {
		end := m.Coords()
		if m.Hit() {
			hits = append(hits, plotter.XY{X: end.X, Y: end.Y})
		} else {
			misses = append(misses, plotter.XY{X: end.X, Y: end.Y})
		}
		if origin := m.Origin(); !seen[origin] {
			seen[origin] = true
			sensors = append(sensors, plotter.XY{X: origin.X, Y: origin.Y})
		}
	}
	if err := addPoints(p, "hit", hits, hitColor, 1.5); err != nil {
		return err
	}
	if err := addPoints(p, "max range", misses, missColor, 1); err != nil {
		return err
	}
	if err := addPoints(p, "sensor", sensors, sensorColor, 3); err != nil {
		return err
	}

	setLimits(p, view)
	return p.Save(plotSize, plotSize, path)
}

// ViewBounds returns the square, centered on the world origin, that shows the full reach of every
// sensor in the scan and every obstacle, padded by a margin.
func ViewBounds(ms lidar.Measurements, world []spatialmath.Geometry, maxRange float64) r2.Rect {
	var extent float64
	grow := func(p r2.Point) {
		extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	for _, m := range ms {
		origin := m.Origin()
		grow(origin.Add(r2.Point{X: maxRange, Y: maxRange}))
		grow(origin.Sub(r2.Point{X: maxRange, Y: maxRange}))
		grow(m.Coords())
	}
	for _, g := range world {
		bounds := g.Bounds()
		grow(bounds.Lo())
		grow(bounds.Hi())
	}
	if extent == 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return r2.EmptyRect()
	}
	extent *= 1 + marginRatio
	return r2.RectFromCenterSize(r2.Point{}, r2.Point{X: 2 * extent, Y: 2 * extent})
}

func splitOffsets(ms lidar.Measurements) (hits, misses plotter.XYs) {
	for _, m := range ms {
		offset := m.Offset()
		xy := plotter.XY{X: offset.X, Y: offset.Y}
		if m.Hit() {
			hits = append(hits, xy)
		} else {
			misses = append(misses, xy)
		}
	}
	return hits, misses
}

func addPoints(p *plot.Plot, name string, xys plotter.XYs, c color.Color, radius float64) error {
	if len(xys) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(radius)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}

// setLimits fixes the axes to the given view; it must run after every plotter is added since
// adding one widens the axes to its data.
func setLimits(p *plot.Plot, view r2.Rect) {
	p.X.Min, p.X.Max = view.X.Lo, view.X.Hi
	p.Y.Min, p.Y.Max = view.Y.Lo, view.Y.Hi
}

func toXYs(pts []r2.Point) plotter.XYs {
	xys := make(plotter.XYs, 0, len(pts))
	for _, pt := range pts {
		xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
	}
	return xys
}

func circleXYs(center r2.Point, radius, resolution float64) plotter.XYs {
	c, err := spatialmath.NewCircle(center, radius, "")
	if err != nil {
		return nil
	}
	return toXYs(c.ToPoints(resolution))
}
