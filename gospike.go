// This file is part of GoSpike.
//
// GoSpike is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GoSpike is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GoSpike.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gospike/hardware"
	"github.com/jetsetilly/gospike/logger"
	"github.com/jetsetilly/gospike/modalflag"
	"github.com/jetsetilly/gospike/statsview"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "DTS")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	exitVal := 0

	switch md.Mode() {
	case "RUN":
		exitVal, err = run(md)

	case "DTS":
		err = dts(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}

	os.Exit(exitVal)
}

// machineFlags adds the flags common to every mode that builds a machine.
// The returned function folds the parsed values into a Config.
func machineFlags(md *modalflag.Modes) func() (hardware.Config, error) {
	harts := md.AddInt("p", 1, "number of harts")
	hartIDs := md.AddString("hartids", "", "explicit hartids, eg. 0,2,4")
	isa := md.AddString("isa", hardware.DefaultISA, "RISC-V ISA string")
	mem := md.AddString("m", "", "memory: MiB or base:size pairs, eg. 0x80000000:0x10000000")
	pc := md.AddString("pc", "", "override entry point address")
	halted := md.AddBool("H", false, "start halted, allowing a debugger to connect")

	return func() (hardware.Config, error) {
		cfg := hardware.NewConfig()
		cfg.NumHarts = *harts
		cfg.ISA = *isa
		cfg.StartHalted = *halted
		if *mem != "" {
			cfg.Memory = *mem
		}

		if *hartIDs != "" {
			for _, s := range strings.Split(*hartIDs, ",") {
				id, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil {
					return cfg, fmt.Errorf("hartids: %v", err)
				}
				cfg.HartIDs = append(cfg.HartIDs, id)
			}
		}

		if *pc != "" {
			v, err := strconv.ParseUint(*pc, 0, 64)
			if err != nil {
				return cfg, fmt.Errorf("pc: %v", err)
			}
			cfg.StartPC = v
		}

		return cfg, nil
	}
}

// run returns the exit status reported by the simulated program.
func run(md *modalflag.Modes) (int, error) {
	md.NewMode()

	machine := machineFlags(md)
	ic := md.AddString("ic", "", "instruction cache geometry, sets:ways:blockbytes")
	dc := md.AddString("dc", "", "data cache geometry, sets:ways:blockbytes")
	l2 := md.AddString("l2", "", "L2 cache geometry, sets:ways:blockbytes")
	rbbPort := md.AddUint("rbb-port", 0, "listen for remote bitbang connection (0 for ephemeral port)")
	progSize := md.AddInt("progsize", 2, "debug module program buffer size")
	sba := md.AddInt("sba", 0, "debug system bus access width in bits (0 to disable)")
	auth := md.AddBool("auth", false, "debug module requires authentication")
	ext := md.AddString("extension", "", "RoCC extension to attach to each hart")
	memvizFile := md.AddString("memviz", "", "write machine structure to dot file on shutdown")
	stats := md.AddBool("stats", false, "launch stats server")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("! stats server not available in this build")
		}
	}

	cfg, err := machine()
	if err != nil {
		return 0, err
	}
	cfg.ICache = *ic
	cfg.DCache = *dc
	cfg.L2 = *l2
	cfg.Extension = *ext
	cfg.Debug.ProgSize = *progSize
	cfg.Debug.SysBusBits = *sba
	cfg.Debug.RequireAuth = *auth

	// the rbb-port flag enables the transport even when left at its zero
	// default
	md.Visit(func(flag string) {
		if flag == "rbb-port" {
			cfg.UseRBB = true
			cfg.RBBPort = uint16(*rbbPort)
		}
	})

	m, err := hardware.NewMachine(cfg)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if m.RBB != nil {
		fmt.Printf("listening for remote bitbang connection on %s\n", m.RBB.Addr())
	}

	// ctrl-c ends the run loop at the next continue check
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	status, err := m.Run(func() (hardware.State, error) {
		select {
		case <-intChan:
			fmt.Println("\r")
			return hardware.Ending, nil
		default:
		}
		return hardware.Running, nil
	})
	if err != nil {
		return 0, err
	}

	if *memvizFile != "" {
		if err := writeMemviz(m, *memvizFile); err != nil {
			return 0, err
		}
	}

	m.WriteStatistics(os.Stdout)

	return status, nil
}

func dts(md *modalflag.Modes) error {
	md.NewMode()

	machine := machineFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	cfg, err := machine()
	if err != nil {
		return err
	}

	m, err := hardware.NewMachine(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Print(m.DTS())

	return nil
}

// writeMemviz renders the cache hierarchy to a graphviz dot file. The memory
// backing store is far too large to render usefully so only the caches and
// their miss-handler chain are mapped.
func writeMemviz(m *hardware.Machine, filename string) error {
	var subjects []interface{}
	if m.IC != nil {
		subjects = append(subjects, m.IC)
	}
	if m.DC != nil {
		subjects = append(subjects, m.DC)
	}
	if m.L2 != nil {
		subjects = append(subjects, m.L2)
	}
	if len(subjects) == 0 {
		fmt.Println("! no caches configured, nothing to render")
		return nil
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, subjects...)

	return nil
}
