package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/lidar/scanplot"
	"go.viam.com/lidarsim/scene"
	"go.viam.com/lidarsim/spatialmath"
)

// sensorScan is the outcome of sweeping one sensor.
type sensorScan struct {
	desc         lidar.DeviceDescription
	unit         lidar.AngleUnit
	measurements lidar.Measurements
	summary      lidar.Summary
}

type reading struct {
	Angle    float64 `json:"angle"`
	Distance float64 `json:"distance"`
	Hit      bool    `json:"hit"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type sensorReport struct {
	Sensor   string        `json:"sensor"`
	Unit     string        `json:"unit"`
	Summary  lidar.Summary `json:"summary"`
	Readings []reading     `json:"readings"`
}

func loadScene(c *cli.Context, path string, logger golog.Logger) (*scene.Config, error) {
	if path == "" {
		logger.Debug("no scene given, using the demo scene")
		cfg := scene.Default()
		if err := cfg.Ensure(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return scene.Read(c.Context, path, logger)
}

func selectSensors(cfg *scene.Config, names []string) ([]lidar.DeviceDescription, error) {
	if len(names) == 0 {
		return cfg.Sensors, nil
	}
	descs := make([]lidar.DeviceDescription, 0, len(names))
	for _, name := range names {
		desc, ok := cfg.Sensor(name)
		if !ok {
			return nil, errors.Errorf("no sensor named %q in scene", name)
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

func scanAction(c *cli.Context, logger golog.Logger) error {
	format := c.String(flagFormat)
	switch format {
	case formatTable, formatCSV, formatJSON, formatSummary:
	default:
		return errors.Errorf("unknown format %q; expected one of table, csv, json or summary", format)
	}

	cfg, err := loadScene(c, c.String(flagScene), logger)
	if err != nil {
		return err
	}
	descs, err := selectSensors(cfg, c.StringSlice(flagSensor))
	if err != nil {
		return err
	}
	world, err := cfg.World()
	if err != nil {
		return err
	}

	scans, err := scanSensors(c.Context, descs, world, lidar.ScanOptions{Count: c.Int(flagCount)}, logger)
	if err != nil {
		return err
	}

	if err := printScans(c, format, scans); err != nil {
		return err
	}
	if dir := c.String(flagPNG); dir != "" {
		if err := savePlots(dir, scans, world); err != nil {
			return err
		}
		logger.Infow("saved plots", "dir", dir)
	}
	if path := c.String(flagHTML); path != "" {
		if err := saveHTML(path, scans, world); err != nil {
			return err
		}
		logger.Infow("saved chart", "path", path)
	}
	return nil
}

// scanSensors sweeps every sensor concurrently and returns their scans in sensor order.
func scanSensors(
	ctx context.Context,
	descs []lidar.DeviceDescription,
	world []spatialmath.Geometry,
	options lidar.ScanOptions,
	logger golog.Logger,
) (scans []sensorScan, err error) {
	units := make([]lidar.AngleUnit, len(descs))
	for i, desc := range descs {
		params, err := desc.ScanParameters()
		if err != nil {
			return nil, errors.Wrapf(err, "sensor %q", desc.Name)
		}
		units[i] = params.Unit
	}
	devices, err := lidar.CreateDevices(ctx, descs, world, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, dev := range devices {
			err = multierr.Combine(err, dev.Close(context.Background()))
		}
	}()

	scans = make([]sensorScan, len(devices))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, dev := range devices {
		group.Go(func() (err error) {
			if err := dev.Start(groupCtx); err != nil {
				return err
			}
			defer func() {
				err = multierr.Combine(err, dev.Stop(context.Background()))
			}()
			ms, err := dev.Scan(groupCtx, options)
			if err != nil {
				return errors.Wrapf(err, "scanning with %q", descs[i].Name)
			}
			summary, err := lidar.Summarize(ms)
			if err != nil {
				return err
			}
			logger.Debugw("sensor scanned", "sensor", descs[i].Name, "hits", summary.Hits, "rays", summary.Rays)
			scans[i] = sensorScan{desc: descs[i], unit: units[i], measurements: ms, summary: summary}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return scans, nil
}

func report(scan sensorScan) sensorReport {
	r := sensorReport{
		Sensor:   scan.desc.Name,
		Unit:     string(scan.unit),
		Summary:  scan.summary,
		Readings: make([]reading, 0, len(scan.measurements)),
	}
	for _, m := range scan.measurements {
		end := m.Coords()
		r.Readings = append(r.Readings, reading{
			Angle:    m.Angle(),
			Distance: m.Distance(),
			Hit:      m.Hit(),
			Label:    m.HitLabel(),
			X:        end.X,
			Y:        end.Y,
		})
	}
	return r
}

func readingsTable(r sensorReport) table.Writer {
	t := table.NewWriter()
	t.SetTitle(r.Sensor)
	t.AppendHeader(table.Row{"#", "Angle (" + r.Unit + ")", "Distance", "Obstacle", "X", "Y"})
	for i, rd := range r.Readings {
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.3f", rd.Angle),
			fmt.Sprintf("%.3f", rd.Distance),
			rd.Label,
			fmt.Sprintf("%.3f", rd.X),
			fmt.Sprintf("%.3f", rd.Y),
		})
	}
	return t
}

func summaryTable(reports []sensorReport) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Sensor", "Rays", "Hits", "Hit ratio", "Min", "Max", "Mean", "Median", "Std dev"})
	for _, r := range reports {
		s := r.Summary
		t.AppendRow(table.Row{
			r.Sensor,
			s.Rays,
			s.Hits,
			fmt.Sprintf("%.3f", s.HitRatio),
			fmt.Sprintf("%.3f", s.Min),
			fmt.Sprintf("%.3f", s.Max),
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%.3f", s.Median),
			fmt.Sprintf("%.3f", s.StdDev),
		})
	}
	return t
}

func printScans(c *cli.Context, format string, scans []sensorScan) error {
	reports := make([]sensorReport, 0, len(scans))
	for _, scan := range scans {
		reports = append(reports, report(scan))
	}
	out := c.App.Writer
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatCSV:
		for _, r := range reports {
			fmt.Fprintln(out, readingsTable(r).RenderCSV())
		}
	case formatTable:
		for _, r := range reports {
			fmt.Fprintln(out, readingsTable(r).Render())
		}
		fmt.Fprintln(out, summaryTable(reports).Render())
	case formatSummary:
		fmt.Fprintln(out, summaryTable(reports).Render())
	}
	return nil
}

func savePlots(dir string, scans []sensorScan, world []spatialmath.Geometry) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	for _, scan := range scans {
		polar := filepath.Join(dir, scan.desc.Name+"_scan.png")
		if err := scanplot.SavePolar(polar, scan.measurements, scan.desc.MaxRange); err != nil {
			return errors.Wrapf(err, "plotting scan of %q", scan.desc.Name)
		}
		obstacleMap := filepath.Join(dir, scan.desc.Name+"_map.png")
		if err := scanplot.SaveObstacleMap(obstacleMap, scan.measurements, world, scan.desc.MaxRange); err != nil {
			return errors.Wrapf(err, "plotting obstacle map of %q", scan.desc.Name)
		}
	}
	return nil
}

func saveHTML(path string, scans []sensorScan, world []spatialmath.Geometry) (err error) {
	var all lidar.Measurements
	var maxRange float64
	for _, scan := range scans {
		all = append(all, scan.measurements...)
		if scan.desc.MaxRange > maxRange {
			maxRange = scan.desc.MaxRange
		}
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return scanplot.WriteHTML(f, "lidar scan", all, world, maxRange)
}

func sceneInitAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("a file to write the scene to is required")
	}
	if err := scene.Default().WriteFile(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote demo scene to %s\n", path)
	return nil
}

// angularResolution builds the sensor's device only to ask for its resolution.
func angularResolution(
	ctx context.Context,
	desc lidar.DeviceDescription,
	world []spatialmath.Geometry,
	logger golog.Logger,
) (resolution float64, err error) {
	dev, err := lidar.CreateDevice(ctx, desc, world, logger)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Combine(err, dev.Close(ctx))
	}()
	return dev.AngularResolution(ctx)
}

func sceneShowAction(c *cli.Context, logger golog.Logger) error {
	cfg, err := loadScene(c, c.Args().First(), logger)
	if err != nil {
		return err
	}
	world, err := cfg.World()
	if err != nil {
		return err
	}

	sensors := table.NewWriter()
	sensors.SetTitle("Sensors")
	sensors.AppendHeader(table.Row{"Name", "Type", "Origin", "Max range", "Rays", "Resolution (deg)"})
	for _, desc := range cfg.Sensors {
		params, err := desc.ScanParameters()
		if err != nil {
			return err
		}
		resolution, err := angularResolution(c.Context, desc, world, logger)
		if err != nil {
			return err
		}
		sensors.AppendRow(table.Row{
			desc.Name,
			desc.Type,
			fmt.Sprintf("(%.3f, %.3f)", desc.Origin.X, desc.Origin.Y),
			desc.MaxRange,
			len(params.Angles),
			fmt.Sprintf("%.3f", resolution),
		})
	}
	fmt.Fprintln(c.App.Writer, sensors.Render())

	obstacles := table.NewWriter()
	obstacles.SetTitle("Obstacles")
	obstacles.AppendHeader(table.Row{"#", "Label", "Geometry"})
	for i, g := range world {
		obstacles.AppendRow(table.Row{i, g.Label(), g.String()})
	}
	fmt.Fprintln(c.App.Writer, obstacles.Render())
	return nil
}
