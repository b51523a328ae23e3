package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/lidarsim/scene"
)

const roomScene = "../../../scene/data/room.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := newApp(&buf).Run(append([]string{"sim"}, args...))
	return buf.String(), err
}

func TestScanJSON(t *testing.T) {
	out, err := run(t, "scan", "--scene", roomScene, "--format", "json")
	test.That(t, err, test.ShouldBeNil)

	var reports []sensorReport
	test.That(t, json.Unmarshal([]byte(out), &reports), test.ShouldBeNil)
	test.That(t, reports, test.ShouldHaveLength, 2)
	test.That(t, reports[0].Sensor, test.ShouldEqual, "center")
	test.That(t, reports[0].Unit, test.ShouldEqual, "degrees")
	test.That(t, reports[0].Readings, test.ShouldHaveLength, 180)
	test.That(t, reports[0].Summary.Hits, test.ShouldEqual, 180)

	corner := reports[1]
	test.That(t, corner.Sensor, test.ShouldEqual, "corner")
	test.That(t, corner.Unit, test.ShouldEqual, "degrees")
	test.That(t, corner.Readings, test.ShouldHaveLength, 7)
	test.That(t, corner.Readings[0].Angle, test.ShouldEqual, 0)
	test.That(t, corner.Readings[0].Distance, test.ShouldAlmostEqual, 18)
	test.That(t, corner.Readings[0].Label, test.ShouldEqual, "walls")
	test.That(t, corner.Readings[0].X, test.ShouldAlmostEqual, 10)
	test.That(t, corner.Readings[0].Y, test.ShouldAlmostEqual, -8)
	test.That(t, corner.Readings[6].Distance, test.ShouldAlmostEqual, 18)
	test.That(t, corner.Readings[3].Label, test.ShouldEqual, "pillar")
}

func TestScanSelectSensor(t *testing.T) {
	out, err := run(t, "scan", "--scene", roomScene, "--format", "json", "--sensor", "corner")
	test.That(t, err, test.ShouldBeNil)
	var reports []sensorReport
	test.That(t, json.Unmarshal([]byte(out), &reports), test.ShouldBeNil)
	test.That(t, reports, test.ShouldHaveLength, 1)
	test.That(t, reports[0].Sensor, test.ShouldEqual, "corner")

	_, err = run(t, "scan", "--scene", roomScene, "--sensor", "ceiling")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `no sensor named "ceiling"`)
}

func TestScanFormats(t *testing.T) {
	out, err := run(t, "scan", "--scene", roomScene, "--sensor", "corner")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "corner")
	test.That(t, out, test.ShouldContainSubstring, "pillar")
	test.That(t, out, test.ShouldContainSubstring, "HIT RATIO")

	out, err = run(t, "scan", "--scene", roomScene, "--sensor", "corner", "--format", "csv")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "0,0.000,18.000,walls,10.000,-8.000")

	out, err = run(t, "scan", "--scene", roomScene, "--format", "summary")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "center")
	test.That(t, out, test.ShouldContainSubstring, "corner")
	test.That(t, out, test.ShouldNotContainSubstring, "partition")

	_, err = run(t, "scan", "--scene", roomScene, "--format", "xml")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown format "xml"`)
}

func TestScanDefaultScene(t *testing.T) {
	out, err := run(t, "scan", "--format", "json", "--count", "3")
	test.That(t, err, test.ShouldBeNil)
	var reports []sensorReport
	test.That(t, json.Unmarshal([]byte(out), &reports), test.ShouldBeNil)
	test.That(t, reports, test.ShouldHaveLength, 1)
	test.That(t, reports[0].Sensor, test.ShouldEqual, "lidar")
	test.That(t, reports[0].Readings, test.ShouldHaveLength, 360)
	test.That(t, reports[0].Readings[0].Hit, test.ShouldBeFalse)
	test.That(t, reports[0].Readings[0].Distance, test.ShouldEqual, scene.DefaultMaxRange)
}

func TestScanMissingScene(t *testing.T) {
	_, err := run(t, "scan", "--scene", filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestScanPlots(t *testing.T) {
	dir := t.TempDir()
	pngDir := filepath.Join(dir, "plots")
	htmlPath := filepath.Join(dir, "scan.html")
	_, err := run(t, "scan", "--scene", roomScene, "--format", "summary", "--png", pngDir, "--html", htmlPath)
	test.That(t, err, test.ShouldBeNil)

	for _, name := range []string{"center_scan.png", "center_map.png", "corner_scan.png", "corner_map.png"} {
		info, err := os.Stat(filepath.Join(pngDir, name))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
	}

	html, err := os.ReadFile(htmlPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(html), test.ShouldContainSubstring, "echarts")
	test.That(t, string(html), test.ShouldContainSubstring, "partition")
}

func TestSceneInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	out, err := run(t, "scene", "init", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, path)

	cfg, err := scene.Read(context.Background(), path, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Sensors, test.ShouldHaveLength, 1)
	test.That(t, cfg.Obstacles, test.ShouldHaveLength, 3)

	out, err = run(t, "scene", "show", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "pillar_1")
	test.That(t, out, test.ShouldContainSubstring, "pillar_3")
	test.That(t, out, test.ShouldContainSubstring, "1.000")

	_, err = run(t, "scene", "init")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSceneShowRoom(t *testing.T) {
	out, err := run(t, "scene", "show", roomScene)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "center")
	test.That(t, out, test.ShouldContainSubstring, "partition")
	test.That(t, out, test.ShouldContainSubstring, "15.000")
	test.That(t, out, test.ShouldContainSubstring, "2.000")
}

func TestUnknownDeviceType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laser.yaml")
	contents := `sensors:
  - name: front
    type: laser
    max_range: 10
    rays: 4
obstacles: []
`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	_, err := run(t, "scene", "show", path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `do not know how to create a "laser" device`)

	_, err = run(t, "scan", "--scene", path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `do not know how to create a "laser" device`)
}
