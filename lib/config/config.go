/*package config reads and validates mdcell configuration files. Files use
gcfg's ini-like syntax, e.g.

    [domain]
    Cells = 32
    Grids = 2
    Width = 32.0
    Periodic = true

    [particles]
    PerCellX = 1
    PerCellY = 1
    PerCellZ = 1
    MomentumMean = 0.0
    MomentumStd = 0.1

    [force]
    Cutoff = 1.0
    MinR = 0.01
    Mass = 1.0

    [run]
    Steps = 100
    DT = 0.005
    Threads = -1
    Seed = 42
*/
package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

type DomainConfig struct {
	// Required
	Cells int   // mesh cells per side of the full domain
	Grids int   // grid boxes per side
	Width float64

	// Optional
	Periodic bool
}

type ParticlesConfig struct {
	// Required
	PerCellX, PerCellY, PerCellZ int

	// Optional
	MomentumMean, MomentumStd float64
}

type ForceConfig struct {
	// Required
	Cutoff, MinR, Mass float64
}

type RunConfig struct {
	// Required
	Steps int
	DT float64

	// Optional
	Threads int
	Seed int
	PrintShells, PrintCollisions bool
}

type Config struct {
	Domain DomainConfig
	Particles ParticlesConfig
	Force ForceConfig
	Run RunConfig
}

func (dom *DomainConfig) CheckInit() error {
	if dom.Cells <= 0 {
		return fmt.Errorf("Need to specify a positive Cells in [domain].")
	} else if dom.Grids <= 0 {
		return fmt.Errorf("Need to specify a positive Grids in [domain].")
	} else if dom.Cells % dom.Grids != 0 {
		return fmt.Errorf("Grids = %d in [domain] does not evenly divide " +
			"Cells = %d.", dom.Grids, dom.Cells)
	} else if dom.Width <= 0 {
		return fmt.Errorf("Need to specify a positive Width in [domain].")
	}
	return nil
}

func (part *ParticlesConfig) CheckInit() error {
	if part.PerCellX <= 0 || part.PerCellY <= 0 || part.PerCellZ <= 0 {
		return fmt.Errorf("Need to specify positive PerCellX, PerCellY, " +
			"and PerCellZ in [particles], but got (%d, %d, %d).",
			part.PerCellX, part.PerCellY, part.PerCellZ)
	} else if part.MomentumStd < 0 {
		return fmt.Errorf("MomentumStd in [particles] must be " +
			"non-negative, but is %g.", part.MomentumStd)
	}
	return nil
}

func (force *ForceConfig) CheckInit() error {
	if force.Cutoff <= 0 {
		return fmt.Errorf("Need to specify a positive Cutoff in [force].")
	} else if force.MinR <= 0 {
		return fmt.Errorf("Need to specify a positive MinR in [force].")
	} else if force.Mass <= 0 {
		return fmt.Errorf("Need to specify a positive Mass in [force].")
	}
	return nil
}

func (run *RunConfig) CheckInit() error {
	if run.Steps <= 0 {
		return fmt.Errorf("Need to specify a positive Steps in [run].")
	} else if run.DT <= 0 {
		return fmt.Errorf("Need to specify a positive DT in [run].")
	}

	if run.Threads == 0 { run.Threads = -1 }
	return nil
}

// Parse reads and validates the configuration file at fname.
func Parse(fname string) (*Config, error) {
	cfg := &Config{ }
	if err := gcfg.ReadFileInto(cfg, fname); err != nil {
		return nil, fmt.Errorf("Could not parse the config file '%s': %s",
			fname, err.Error())
	}

	if err := cfg.Domain.CheckInit(); err != nil {
		return nil, err
	} else if err := cfg.Particles.CheckInit(); err != nil {
		return nil, err
	} else if err := cfg.Force.CheckInit(); err != nil {
		return nil, err
	} else if err := cfg.Run.CheckInit(); err != nil {
		return nil, err
	}

	return cfg, nil
}
