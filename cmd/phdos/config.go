package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/cwbudde/algo-phonon/phonon/dos"
	"github.com/cwbudde/algo-phonon/phonon/mesh"
	"github.com/cwbudde/algo-phonon/phonon/smearing"
)

var (
	errUnknownFormat = errors.New("unknown input format, want .json, .yaml or .yml")
	errUnknownModel  = errors.New("unknown model")
	errBadList       = errors.New("malformed number list")
)

// config holds every setting of a run. Environment variables provide the
// defaults, flags override them.
type config struct {
	Input        string  `env:"PHDOS_INPUT"`
	Model        string  `env:"PHDOS_MODEL"         envDefault:"sc"`
	Mesh         string  `env:"PHDOS_MESH"          envDefault:"8,8,8"`
	Longitudinal float64 `env:"PHDOS_KL"            envDefault:"1"`
	Transverse   float64 `env:"PHDOS_KT"            envDefault:"0.25"`
	Mass         float64 `env:"PHDOS_MASS"          envDefault:"1"`
	TimeReversal bool    `env:"PHDOS_TIME_REVERSAL"`

	Sigma       float64 `env:"PHDOS_SIGMA"       envDefault:"NaN"`
	Function    string  `env:"PHDOS_FUNCTION"    envDefault:"normal"`
	Tetrahedron bool    `env:"PHDOS_TETRAHEDRON"`
	FMin        float64 `env:"PHDOS_FMIN"        envDefault:"NaN"`
	FMax        float64 `env:"PHDOS_FMAX"        envDefault:"NaN"`
	FPitch      float64 `env:"PHDOS_FPITCH"      envDefault:"NaN"`
	Binned      int     `env:"PHDOS_BINNED"`
	Workers     int     `env:"PHDOS_WORKERS"`
	Bulk        bool    `env:"PHDOS_BULK"`

	PDOS      bool   `env:"PHDOS_PDOS"`
	Groups    string `env:"PHDOS_GROUPS"`
	XYZ       bool   `env:"PHDOS_XYZ"`
	Direction string `env:"PHDOS_DIRECTION"`

	Debye  int     `env:"PHDOS_DEBYE"`
	FitMax float64 `env:"PHDOS_FIT_MAX" envDefault:"NaN"`

	Output  string `env:"PHDOS_OUTPUT"`
	Export  string `env:"PHDOS_EXPORT"`
	Verbose bool   `env:"PHDOS_VERBOSE"`
	Generic bool   `env:"PHDOS_GENERIC"`
}

func loadConfig(args []string) (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("phdos", flag.ContinueOnError)
	fs.StringVar(&cfg.Input, "input", cfg.Input, "mesh file (.json or phonopy mesh.yaml); empty samples -model")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model sampled without -input (sc)")
	fs.StringVar(&cfg.Mesh, "mesh", cfg.Mesh, "mesh numbers of the sampled model")
	fs.Float64Var(&cfg.Longitudinal, "kl", cfg.Longitudinal, "longitudinal spring constant of the sc model")
	fs.Float64Var(&cfg.Transverse, "kt", cfg.Transverse, "transverse spring constant of the sc model")
	fs.Float64Var(&cfg.Mass, "mass", cfg.Mass, "atomic mass of the sc model")
	fs.BoolVar(&cfg.TimeReversal, "time-reversal", cfg.TimeReversal, "fold q and -q when sampling the model")
	fs.Float64Var(&cfg.Sigma, "sigma", cfg.Sigma, "smearing width (default (max-min)/100)")
	fs.StringVar(&cfg.Function, "function", cfg.Function, "smearing function: normal or cauchy")
	fs.BoolVar(&cfg.Tetrahedron, "tetrahedron", cfg.Tetrahedron, "use the linear tetrahedron method")
	fs.Float64Var(&cfg.FMin, "fmin", cfg.FMin, "lowest frequency of the grid")
	fs.Float64Var(&cfg.FMax, "fmax", cfg.FMax, "highest frequency of the grid")
	fs.Float64Var(&cfg.FPitch, "fpitch", cfg.FPitch, "frequency pitch of the grid")
	fs.IntVar(&cfg.Binned, "binned", cfg.Binned, "binned FFT smearing with this oversampling factor (0: direct sum)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "goroutines for sampling and tetrahedron integration (0: GOMAXPROCS)")
	fs.BoolVar(&cfg.Bulk, "bulk", cfg.Bulk, "parallel bulk tetrahedron integration of the partial DOS")
	fs.BoolVar(&cfg.PDOS, "pdos", cfg.PDOS, "compute the partial DOS")
	fs.StringVar(&cfg.Groups, "groups", cfg.Groups, `sum partial DOS channels per group, 1-based, e.g. "1 2;3"`)
	fs.BoolVar(&cfg.XYZ, "xyz", cfg.XYZ, "one partial DOS channel per Cartesian component")
	fs.StringVar(&cfg.Direction, "direction", cfg.Direction, `project the partial DOS onto a direction, e.g. "1,1,0"`)
	fs.IntVar(&cfg.Debye, "debye", cfg.Debye, "fit a Debye model for this many atoms per cell (0: off)")
	fs.Float64Var(&cfg.FitMax, "fit-max", cfg.FitMax, "highest frequency of the Debye fit (default lowest quarter)")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "output file (default stdout)")
	fs.StringVar(&cfg.Export, "export", cfg.Export, "write the mesh as JSON to this file")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log progress")
	fs.BoolVar(&cfg.Generic, "generic", cfg.Generic, "disable SIMD kernels")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: phdos [flags]\n\n")
		fmt.Fprintf(out, "Computes the phonon density of states of a mesh.\n")
		fmt.Fprintf(out, "Flags default to the PHDOS_* environment variables.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  phdos -mesh 16,16,16 -time-reversal -tetrahedron\n")
		fmt.Fprintf(out, "  phdos -input mesh.yaml -pdos -groups \"1 2;3\"\n")
		fmt.Fprintf(out, "  phdos -mesh 12,12,12 -debye 1 -o total_dos.dat\n")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments %q", fs.Args())
	}
	return cfg, nil
}

func (c *config) loadMesh() (*mesh.Samples, error) {
	if c.Input != "" {
		return readMesh(c.Input)
	}

	var model mesh.Model
	switch strings.ToLower(c.Model) {
	case "sc", "simple-cubic":
		sc := mesh.SimpleCubic{Longitudinal: c.Longitudinal, Transverse: c.Transverse, Mass: c.Mass}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		model = sc
	default:
		return nil, fmt.Errorf("%w %q", errUnknownModel, c.Model)
	}

	numbers, err := parseInts(c.Mesh)
	if err != nil {
		return nil, err
	}
	if len(numbers) != 3 {
		return nil, fmt.Errorf("%w: mesh %q needs three numbers", errBadList, c.Mesh)
	}
	opts := []mesh.SampleOption{mesh.WithSampleWorkers(c.Workers)}
	if c.TimeReversal {
		opts = append(opts, mesh.WithTimeReversal())
	}
	cubic := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	return mesh.Sample(model, [3]int{numbers[0], numbers[1], numbers[2]}, cubic, opts...)
}

func readMesh(path string) (*mesh.Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return mesh.DecodeJSON(f)
	case ".yaml", ".yml":
		return mesh.DecodeYAML(f)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownFormat, path)
	}
}

func (c *config) dosOptions() ([]dos.Option, error) {
	fn, err := smearing.ParseFunction(c.Function)
	if err != nil {
		return nil, err
	}
	opts := []dos.Option{
		dos.WithSmearingFunction(fn),
		dos.WithFrequencyRange(optional(c.FMin), optional(c.FMax), optional(c.FPitch)),
		dos.WithWorkers(c.Workers),
	}
	if !math.IsNaN(c.Sigma) {
		opts = append(opts, dos.WithSigma(c.Sigma))
	}
	if c.Tetrahedron {
		opts = append(opts, dos.WithTetrahedronMethod())
	}
	if c.Bulk {
		opts = append(opts, dos.WithBulkTetrahedron())
	}
	if c.Binned != 0 {
		opts = append(opts, dos.WithBinnedSmearing(c.Binned))
	}
	if c.XYZ {
		opts = append(opts, dos.WithXYZProjection())
	}
	if c.Direction != "" {
		d, err := parseFloats(c.Direction)
		if err != nil {
			return nil, err
		}
		if len(d) != 3 {
			return nil, fmt.Errorf("%w: direction %q needs three numbers", errBadList, c.Direction)
		}
		opts = append(opts, dos.WithDirection([3]float64{d[0], d[1], d[2]}))
	}
	return opts, nil
}

func (c *config) fitOptions() []dos.FitOption {
	if math.IsNaN(c.FitMax) {
		return nil
	}
	return []dos.FitOption{dos.WithFitMaxFrequency(c.FitMax)}
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range fields(s) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", errBadList, s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range fields(s) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", errBadList, s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseGroups reads 1-based channel groups separated by semicolons, e.g.
// "1 2;3", and returns them 0-based.
func parseGroups(s string) ([][]int, error) {
	var groups [][]int
	for _, part := range strings.Split(s, ";") {
		idx, err := parseInts(part)
		if err != nil {
			return nil, err
		}
		if len(idx) == 0 {
			continue
		}
		for i := range idx {
			idx[i]--
		}
		groups = append(groups, idx)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no channel groups in %q", errBadList, s)
	}
	return groups, nil
}
