// Package config holds the run configuration and its JSON sidecar
// persistence.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Output mesh formats.
const (
	FormatVTP = "vtp"
	FormatSTL = "stl"
)

// SidecarName is the file written next to the meshes recording the
// configuration a run actually used.
const SidecarName = "config.json"

// Config is the full set of pipeline parameters. The JSON field names
// are load-bearing: they match the sidecar files existing deployments
// already produce and consume.
type Config struct {
	InputDir                  string  `json:"input_dir"`
	VoxelResampleLength       float64 `json:"voxel_resample_length"`
	ClosingRadius             int     `json:"closing_radius"`
	SmoothingDistance         float64 `json:"smoothing_distance"`
	SmoothingRelaxationFactor float64 `json:"smoothing_relaxation_factor"`
	SmoothingIterations       int     `json:"smoothing_iterations"`
	RemeshEdgeLength          float64 `json:"remesh_edge_length"`
	OutputDir                 string  `json:"output_dir"`
	OutputFormat              string  `json:"output_format"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		InputDir:                  ".",
		VoxelResampleLength:       0.3,
		ClosingRadius:             3,
		SmoothingDistance:         0.3,
		SmoothingRelaxationFactor: 0.01,
		SmoothingIterations:       1000,
		RemeshEdgeLength:          1.0,
		OutputDir:                 "output",
		OutputFormat:              FormatVTP,
	}
}

// Load reads a configuration file, rejecting unknown fields so typos in
// hand-edited files fail loudly.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	defer f.Close()

	cfg := Default()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Validate checks parameter ranges before any work starts.
func (c Config) Validate() error {
	if c.VoxelResampleLength <= 0 {
		return errors.New("voxel_resample_length must be positive")
	}
	if c.ClosingRadius < 0 {
		return errors.New("closing_radius must not be negative")
	}
	if c.SmoothingDistance < 0 {
		return errors.New("smoothing_distance must not be negative")
	}
	if c.SmoothingRelaxationFactor < 0 {
		return errors.New("smoothing_relaxation_factor must not be negative")
	}
	if c.SmoothingIterations < 0 {
		return errors.New("smoothing_iterations must not be negative")
	}
	if c.RemeshEdgeLength <= 0 {
		return errors.New("remesh_edge_length must be positive")
	}
	if c.OutputFormat != FormatVTP && c.OutputFormat != FormatSTL {
		return errors.Errorf("output_format must be %q or %q, got %q", FormatVTP, FormatSTL, c.OutputFormat)
	}
	return nil
}

// WriteSidecar persists the configuration into dir as config.json.
func (c Config) WriteSidecar(dir string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return errors.Wrap(err, "write config sidecar")
	}
	path := filepath.Join(dir, SidecarName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(err, "write config sidecar")
	}
	return nil
}
