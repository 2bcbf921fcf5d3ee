package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
	"gopkg.in/ini.v1"
)

// BCSpec configures one boundary edge: the condition name, an application
// priority (higher runs first) and any named parameters the condition takes
// (e.g. pressure for pressure_input)
type BCSpec struct {
	Type       string             `yaml:"Type"`
	Priority   int                `yaml:"Priority"`
	Parameters map[string]float64 `yaml:"Parameters"`
}

// Parameters obtained from the YAML input deck
type InputParameters2D struct {
	Title          string            `yaml:"Title"`
	CFL            float64           `yaml:"CFL"`
	FluxSolver     string            `yaml:"FluxSolver"` // roe, ausmpw+, slau, fvleg
	Scheme         string            `yaml:"Scheme"`     // tvd2..tvd5, mlp3, mlp5, emlp3, emlp5
	Limiter        string            `yaml:"Limiter"`    // minmod, superbee, van_leer
	Integrator     string            `yaml:"Integrator"` // ssprk2, ssprk3
	InitType       string            `yaml:"InitType"`   // sod_x, sod_y, uniform
	FinalTime      float64           `yaml:"FinalTime"`
	MaxIterations  int               `yaml:"MaxIterations"`
	Gamma          float64           `yaml:"Gamma"`
	SensorEps      float64           `yaml:"SensorEps"`     // e-MLP curvature threshold
	LowMachCutoff  float64           `yaml:"LowMachCutoff"` // 0 disables the AUSMPW+ low-Mach fix
	Nx             int               `yaml:"Nx"`
	Ny             int               `yaml:"Ny"`
	XMin           float64           `yaml:"XMin"`
	XMax           float64           `yaml:"XMax"`
	YMin           float64           `yaml:"YMin"`
	YMax           float64           `yaml:"YMax"`
	ParallelDegree int               `yaml:"ParallelDegree"`
	BCs            map[string]BCSpec `yaml:"BCs"` // keyed by side name: left,right,bottom,top
}

// NewInputParameters2D returns a deck with the defaults a minimal input can
// rely on
func NewInputParameters2D() (ip *InputParameters2D) {
	ip = &InputParameters2D{
		CFL:        0.5,
		FluxSolver: "fvleg",
		Scheme:     "tvd2",
		Limiter:    "minmod",
		Integrator: "ssprk2",
		InitType:   "sod_x",
		Gamma:      1.4,
		SensorEps:  0.01,
	}
	return
}

func (ip *InputParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// ParseINI loads the flat INI deck form; the [simulation] and [grid]
// sections map onto the same fields as the YAML deck, boundary conditions
// come from per-side [bc.<side>] sections
func (ip *InputParameters2D) ParseINI(data []byte) (err error) {
	var (
		f *ini.File
	)
	if f, err = ini.Load(data); err != nil {
		return fmt.Errorf("unable to load INI deck: %v", err)
	}
	if err = f.Section("simulation").MapTo(ip); err != nil {
		return fmt.Errorf("unable to map [simulation]: %v", err)
	}
	if err = f.Section("grid").MapTo(ip); err != nil {
		return fmt.Errorf("unable to map [grid]: %v", err)
	}
	for _, side := range []string{"left", "right", "bottom", "top"} {
		sec := f.Section("bc." + side)
		if len(sec.Keys()) == 0 {
			continue
		}
		if ip.BCs == nil {
			ip.BCs = make(map[string]BCSpec)
		}
		spec := BCSpec{Type: sec.Key("Type").String()}
		spec.Priority, _ = sec.Key("Priority").Int()
		for _, key := range sec.Keys() {
			if key.Name() == "Type" || key.Name() == "Priority" {
				continue
			}
			if spec.Parameters == nil {
				spec.Parameters = make(map[string]float64)
			}
			spec.Parameters[key.Name()], _ = key.Float64()
		}
		ip.BCs[side] = spec
	}
	return
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= Flux Solver\n", ip.FluxSolver)
	fmt.Printf("[%s]\t\t\t= Scheme\n", ip.Scheme)
	fmt.Printf("[%s]\t\t= Limiter\n", ip.Limiter)
	fmt.Printf("[%s]\t\t= Integrator\n", ip.Integrator)
	fmt.Printf("[%dx%d]\t\t\t= Grid\n", ip.Nx, ip.Ny)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %+v\n", key, ip.BCs[key])
	}
}
