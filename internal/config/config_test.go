package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"voxel_resample_length": 0.5, "output_format": "stl"}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VoxelResampleLength != 0.5 {
		t.Errorf("voxel_resample_length: got %v, want 0.5", cfg.VoxelResampleLength)
	}
	if cfg.OutputFormat != FormatSTL {
		t.Errorf("output_format: got %q, want stl", cfg.OutputFormat)
	}
	if cfg.SmoothingIterations != Default().SmoothingIterations {
		t.Errorf("smoothing_iterations should keep the default, got %v", cfg.SmoothingIterations)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"voxel_length": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "zero resample length", mutate: func(c *Config) { c.VoxelResampleLength = 0 }},
		{name: "negative closing radius", mutate: func(c *Config) { c.ClosingRadius = -1 }},
		{name: "negative smoothing distance", mutate: func(c *Config) { c.SmoothingDistance = -0.1 }},
		{name: "negative relaxation", mutate: func(c *Config) { c.SmoothingRelaxationFactor = -1 }},
		{name: "negative iterations", mutate: func(c *Config) { c.SmoothingIterations = -1 }},
		{name: "zero edge length", mutate: func(c *Config) { c.RemeshEdgeLength = 0 }},
		{name: "bad format", mutate: func(c *Config) { c.OutputFormat = "obj" }},
		{name: "zero iterations ok", mutate: func(c *Config) { c.SmoothingIterations = 0 }, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.InputDir = "/data/segs"
	cfg.RemeshEdgeLength = 2.5

	if err := cfg.WriteSidecar(dir); err != nil {
		t.Fatalf("WriteSidecar: %v", err)
	}
	got, err := Load(filepath.Join(dir, SidecarName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, cfg)
	}
}
