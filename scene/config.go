// Package scene reads and validates simulation scenes: the sensors to sweep with and the obstacles
// they sweep.
package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/spatialmath"
)

// Format is the encoding of a scene file.
type Format string

// The supported scene encodings.
const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
)

// FormatFromPath picks the encoding of a scene file from its extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("cannot tell scene format of %q; expected .json, .yaml or .yml", path)
	}
}

// Config describes a scene.
type Config struct {
	ConfigFilePath string `json:"-" yaml:"-"`

	Sensors   []lidar.DeviceDescription    `json:"sensors" yaml:"sensors"`
	Obstacles []spatialmath.GeometryConfig `json:"obstacles" yaml:"obstacles"`
}

// Ensure fills in defaults and validates the scene. Every problem found is reported.
func (c *Config) Ensure() error {
	for idx := range c.Sensors {
		if c.Sensors[idx].Type == "" {
			c.Sensors[idx].Type = lidar.DeviceTypeFake
		}
	}
	return c.Validate("")
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	var err error
	if len(c.Sensors) == 0 {
		err = multierr.Append(err, goutils.NewConfigValidationFieldRequiredError(path, "sensors"))
	}
	seen := make(map[string]int, len(c.Sensors))
	for idx := range c.Sensors {
		sensorPath := joinPath(path, fmt.Sprintf("%s.%d", "sensors", idx))
		if sensorErr := c.Sensors[idx].Validate(sensorPath); sensorErr != nil {
			err = multierr.Append(err, sensorErr)
			continue
		}
		name := c.Sensors[idx].Name
		if prev, ok := seen[name]; ok {
			err = multierr.Append(err, goutils.NewConfigValidationError(sensorPath,
				errors.Errorf("name %q already used by sensors.%d", name, prev)))
			continue
		}
		seen[name] = idx
	}
	for idx := range c.Obstacles {
		if _, parseErr := c.Obstacles[idx].ParseConfig(); parseErr != nil {
			obstaclePath := joinPath(path, fmt.Sprintf("%s.%d", "obstacles", idx))
			err = multierr.Append(err, goutils.NewConfigValidationError(obstaclePath, parseErr))
		}
	}
	return err
}

func joinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

// World builds the obstacles of the scene.
func (c *Config) World() ([]spatialmath.Geometry, error) {
	world := make([]spatialmath.Geometry, 0, len(c.Obstacles))
	for idx := range c.Obstacles {
		g, err := c.Obstacles[idx].ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "obstacles.%d", idx)
		}
		world = append(world, g)
	}
	return world, nil
}

// Sensor returns the sensor with the given name.
func (c *Config) Sensor(name string) (lidar.DeviceDescription, bool) {
	for _, desc := range c.Sensors {
		if desc.Name == name {
			return desc, true
		}
	}
	return lidar.DeviceDescription{}, false
}

// Read reads a scene from the given file, expanding environment variables in it first.
func Read(ctx context.Context, filePath string, logger golog.Logger) (*Config, error) {
	format, err := FormatFromPath(filePath)
	if err != nil {
		return nil, err
	}
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(ctx, filePath, format, bytes.NewReader(buf), logger)
}

// FromReader reads a scene from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(
	ctx context.Context,
	originalPath string,
	format Format,
	r io.Reader,
	logger golog.Logger,
) (*Config, error) {
	cfg := Config{ConfigFilePath: originalPath}
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode scene from json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode scene from yaml")
		}
	default:
		return nil, errors.Errorf("unknown scene format %q", format)
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrap(err, "failed to process scene")
	}
	logger.Debugw("read scene", "path", originalPath, "sensors", len(cfg.Sensors), "obstacles", len(cfg.Obstacles))
	return &cfg, nil
}

// Write encodes the scene in the given format.
func (c *Config) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.Errorf("unknown scene format %q", format)
	}
}

// WriteFile writes the scene to a file, picking the format from its extension.
func (c *Config) WriteFile(filePath string) (err error) {
	format, err := FormatFromPath(filePath)
	if err != nil {
		return err
	}
	//nolint:gosec
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return c.Write(f, format)
}
