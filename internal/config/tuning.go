// Package config loads the canonical tuning defaults for the simulation
// core from a JSON file, the single source of truth for default tuning
// values shared between tests, cmd/simcli, and any future host process.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PH-19/sonarscan-sim/internal/sonarsim"
)

// DefaultConfigPath is the path to the canonical tuning defaults file,
// relative to the repository root.
const DefaultConfigPath = "config/tuning.defaults.json"

// maxFileSize bounds how large a defaults file we will read, as a basic
// safety check against misconfigured paths.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Defaults mirrors sonarsim.TuningPartial with JSON tags; fields omitted
// from the file are left nil and do not override the in-code defaults.
type Defaults struct {
	NoiseScale    *float64 `json:"noise_scale,omitempty"`
	SpeckleProb   *float64 `json:"speckle_prob,omitempty"`
	Threshold     *float64 `json:"threshold,omitempty"`
	DBSCANEpsBins *float64 `json:"dbscan_eps_bins,omitempty"`
	DBSCANMinPts  *int     `json:"dbscan_min_pts,omitempty"`
	KernelCap     *int     `json:"kernel_cap,omitempty"`
}

// ToPartial converts Defaults into the sonarsim.TuningPartial shape
// consumed by Engine.SetTuning.
func (d *Defaults) ToPartial() sonarsim.TuningPartial {
	return sonarsim.TuningPartial{
		NoiseScale:    d.NoiseScale,
		SpeckleProb:   d.SpeckleProb,
		Threshold:     d.Threshold,
		DBSCANEpsBins: d.DBSCANEpsBins,
		DBSCANMinPts:  d.DBSCANMinPts,
		KernelCap:     d.KernelCap,
	}
}

// LoadDefaults loads a Defaults from a JSON file. The file must have a
// .json extension and be under maxFileSize. Fields omitted from the file
// retain their nil (no-override) value, so partial files are safe.
func LoadDefaults(path string) (*Defaults, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	d := &Defaults{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return d, nil
}

// MustLoadDefaults loads the canonical tuning defaults from
// DefaultConfigPath, searching from the current directory up through
// common parent directories so tests running from any package directory
// can find it. Panics if the file cannot be found; intended for test setup
// and cmd/simcli startup, not for hot paths.
func MustLoadDefaults() *Defaults {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if d, err := LoadDefaults(path); err == nil {
			return d
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root or a package two levels deep")
}

// Tuning builds a fully-clamped sonarsim.Tuning from these defaults,
// starting from sonarsim.DefaultTuning() and merging in any overrides.
func (d *Defaults) Tuning() sonarsim.Tuning {
	return sonarsim.DefaultTuning().Merge(d.ToPartial())
}
