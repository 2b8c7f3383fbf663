// Command phdos computes the phonon density of states of a mesh.
//
// Usage:
//
//	phdos [flags]
//
// The mesh is read from a JSON or phonopy mesh.yaml file given with -input,
// or sampled from the nearest-neighbour simple cubic model on the -mesh grid.
// Every flag can also be set through a PHDOS_* environment variable.
//
// Examples:
//
//	phdos -mesh 16,16,16 -time-reversal -tetrahedron
//	phdos -input mesh.yaml -pdos -groups "1 2;3"
//	phdos -mesh 12,12,12 -debye 1 -o total_dos.dat
//	phdos -mesh 8,8,8 -export mesh.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-phonon/phonon/dos"
	"github.com/cwbudde/algo-phonon/phonon/mesh"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("phdos: ")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := loadConfig(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logf := func(string, ...any) {}
	if cfg.Verbose {
		logf = log.Printf
	}
	if cfg.Generic {
		cpu.SetForcedFeatures(cpu.Features{Architecture: runtime.GOARCH, ForceGeneric: true})
	}
	logf("cpu: %s", describeCPU(cpu.DetectFeatures()))

	m, err := cfg.loadMesh()
	if err != nil {
		return err
	}
	logf("mesh: %d grid points, %d bands", m.NumGridPoints(), m.NumBands())

	if cfg.Export != "" {
		if err := writeFile(cfg.Export, func(w io.Writer) error { return mesh.EncodeJSON(w, m) }); err != nil {
			return err
		}
		logf("mesh written to %s", cfg.Export)
	}

	opts, err := cfg.dosOptions()
	if err != nil {
		return err
	}

	write := func(fn func(io.Writer) error) error {
		if cfg.Output == "" {
			return fn(stdout)
		}
		return writeFile(cfg.Output, fn)
	}

	if cfg.PDOS {
		return runPartial(cfg, m, opts, write, logf)
	}
	return runTotal(cfg, m, opts, write, logf)
}

func runTotal(cfg *config, m *mesh.Samples, opts []dos.Option, write func(func(io.Writer) error) error, logf func(string, ...any)) error {
	total, err := dos.NewTotal(m, opts...)
	if err != nil {
		return err
	}
	logf("total DOS: %s, %d frequency points", total.Mode(), len(total.FrequencyPoints()))
	if err := total.Run(); err != nil {
		return err
	}

	if cfg.Debye > 0 {
		fit, err := total.FitDebye(cfg.Debye, cfg.fitOptions()...)
		if err != nil {
			return err
		}
		log.Printf("Debye frequency: %.6f (a = %.6g over %d points)", fit.Frequency, fit.Coefficient, fit.NumPoints)
	}

	return write(func(w io.Writer) error {
		_, err := total.WriteTo(w)
		return err
	})
}

func runPartial(cfg *config, m *mesh.Samples, opts []dos.Option, write func(func(io.Writer) error) error, logf func(string, ...any)) error {
	p, err := dos.NewPartial(m, opts...)
	if err != nil {
		return err
	}
	logf("partial DOS: %s, %d channels, %d frequency points", p.Mode(), p.NumChannels(), len(p.FrequencyPoints()))
	if err := p.Run(); err != nil {
		return err
	}

	if cfg.Groups == "" {
		return write(func(w io.Writer) error {
			_, err := p.WriteTo(w)
			return err
		})
	}

	groups, err := parseGroups(cfg.Groups)
	if err != nil {
		return err
	}
	points, pdos, err := p.PDOS()
	if err != nil {
		return err
	}
	sums, err := dos.SumChannels(pdos, groups)
	if err != nil {
		return err
	}
	return write(func(w io.Writer) error {
		return dos.WritePartial(w, points, sums, p.Comment())
	})
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}

func describeCPU(f cpu.Features) string {
	if f.ForceGeneric {
		return f.Architecture + ", generic kernels forced"
	}
	var simd []string
	for _, s := range []struct {
		name string
		ok   bool
	}{
		{"SSE2", f.HasSSE2},
		{"AVX", f.HasAVX},
		{"AVX2", f.HasAVX2},
		{"AVX-512", f.HasAVX512},
		{"NEON", f.HasNEON},
	} {
		if s.ok {
			simd = append(simd, s.name)
		}
	}
	if len(simd) == 0 {
		simd = append(simd, "none")
	}
	return fmt.Sprintf("%s, SIMD: %s", f.Architecture, strings.Join(simd, " "))
}
