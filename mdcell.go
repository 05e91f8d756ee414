package main

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/mdcell/lib/config"
	"github.com/phil-mansfield/mdcell/lib/dynamics"
	"github.com/phil-mansfield/mdcell/lib/error"
	"github.com/phil-mansfield/mdcell/lib/geom"
	"github.com/phil-mansfield/mdcell/lib/sim"
	"github.com/phil-mansfield/mdcell/lib/thread"
)

func main() {
	// Parse arguments.
	if len(os.Args) == 2 && os.Args[1] == "help" {
		PrintHelp()
		return
	} else if len(os.Args) != 3 {
		error.External(
			"mdcell must be run as 'mdcell <mode> <config file>', where " +
				"<mode> is one of 'run', 'check', and 'help'.",
		)
	}
	mode, configFile := os.Args[1], os.Args[2]

	// Run the chosen mode.
	switch mode {
	case "help":
		PrintHelp()
	case "check":
		Check(configFile)
	case "run":
		Run(configFile)
	default:
		error.External(
			"You attempted to run mdcell in the mode '%s', but the only " +
				"valid modes are 'help', 'check', and 'run'.", mode,
		)
	}
}

func PrintHelp() {
	fmt.Println(`mdcell is a short-range particle interaction engine.

Usage:
    mdcell run <config file>      run the simulation
    mdcell check <config file>    test the configuration for errors
    mdcell help                   print this message

The config file is an ini-like file with [domain], [particles], [force], and
[run] sections. See the package documentation of lib/config for the full
list of variables.`)
}

// setup validates the configuration and builds the simulation it describes.
func setup(configFile string) (*config.Config, *sim.Simulation) {
	cfg, err := config.Parse(configFile)
	if err != nil { error.External(err.Error()) }

	if err = thread.Set(cfg.Run.Threads); err != nil {
		error.External(err.Error())
	}

	dom, err := geom.NewDecomp(cfg.Domain.Cells, cfg.Domain.Grids,
		cfg.Domain.Width, cfg.Domain.Periodic, 1)
	if err != nil { error.External(err.Error()) }

	p := dynamics.Params{
		Cutoff: cfg.Force.Cutoff, MinR: cfg.Force.MinR, Mass: cfg.Force.Mass,
	}
	s, err := sim.New(dom, p)
	if err != nil { error.External(err.Error()) }

	return cfg, s
}

// Check runs mdcell's "check" mode, which tests for errors in the
// configuration file and the geometry it describes without running anything.
func Check(configFile string) {
	setup(configFile)
	fmt.Println("No errors detected.")
}

// Run runs mdcell's "run" mode: initialize particles on a lattice and
// advance them for the configured number of steps.
func Run(configFile string) {
	cfg, s := setup(configFile)

	nppc := [3]int{
		cfg.Particles.PerCellX, cfg.Particles.PerCellY, cfg.Particles.PerCellZ,
	}
	err := s.InitParticles(nppc, cfg.Particles.MomentumMean,
		cfg.Particles.MomentumStd, uint64(cfg.Run.Seed))
	if err != nil { error.External(err.Error()) }

	fmt.Printf("Running %d particles for %d steps.\n",
		s.NumParticles(), cfg.Run.Steps)

	for step := 0; step < cfg.Run.Steps; step++ {
		if err := s.Step(cfg.Run.DT); err != nil {
			error.External("Step %d failed: %s", step, err.Error())
		}

		if cfg.Run.PrintShells { s.ShellReport(os.Stdout) }
		if cfg.Run.PrintCollisions { s.CollisionReport(os.Stdout) }
	}

	fmt.Println("Done.")
}
