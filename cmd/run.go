/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"io/ioutil"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smillerc/fvleg-2d/InputParameters"
	"github.com/smillerc/fvleg-2d/bcs"
	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/fluxsolvers"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/reconstruction"
	"github.com/smillerc/fvleg-2d/server"
	"github.com/smillerc/fvleg-2d/sod_shock_tube"
	"github.com/smillerc/fvleg-2d/timeintegration"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from an input deck",
	Long: `
Reads a YAML or INI input deck describing the grid, boundary conditions,
reconstruction scheme and flux solver, then advances the solution to the
deck's final time.`,
	Run: func(cmd *cobra.Command, args []string) {
		deckFile, _ := cmd.Flags().GetString("input")
		monitorAddr, _ := cmd.Flags().GetString("monitor")
		doProfile, _ := cmd.Flags().GetBool("profile")
		ip := processDeck(deckFile)
		ip.Print()
		runSolver(ip, monitorAddr, doProfile)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("input", "I", "", "input deck (.yaml or .ini)")
	runCmd.Flags().String("monitor", "", "serve residuals over websocket on this address (e.g. :8080)")
	runCmd.Flags().Bool("profile", false, "write a CPU profile for this run")
}

func processDeck(deckFile string) (ip *InputParameters.InputParameters2D) {
	if len(deckFile) == 0 {
		log.Error("must supply an input deck (-I, --input)")
		exampleFile := `
########################################
Title: "Sod shock tube"
CFL: 0.5
FluxSolver: fvleg       # or roe, ausmpw+, slau
Scheme: tvd2            # tvd2/3/5, mlp3/5, emlp3/5
Limiter: minmod
Integrator: ssprk2
InitType: sod_x
FinalTime: 0.2
Gamma: 1.4
Nx: 200
Ny: 4
XMax: 1
YMax: 0.02
BCs:
  left: {Type: zero_gradient}
  right: {Type: zero_gradient}
  bottom: {Type: periodic}
  top: {Type: periodic}
########################################
`
		log.Infof("Example deck:%s", exampleFile)
		os.Exit(1)
	}
	data, err := ioutil.ReadFile(deckFile)
	if err != nil {
		log.WithError(err).Fatalf("unable to read input deck %s", deckFile)
	}
	ip = InputParameters.NewInputParameters2D()
	if strings.HasSuffix(deckFile, ".ini") {
		err = ip.ParseINI(data)
	} else {
		err = ip.Parse(data)
	}
	if err != nil {
		log.WithError(err).Fatalf("unable to parse input deck %s", deckFile)
	}
	return
}

func runSolver(ip *InputParameters.InputParameters2D, monitorAddr string, doProfile bool) {
	if doProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	var (
		gas = eos.NewIdealGas(ip.Gamma)
		g   = grid.NewCartesian(ip.Nx, ip.Ny, ip.XMin, ip.XMax, ip.YMin, ip.YMax)
		pd  = ip.ParallelDegree
	)
	if pd < 1 {
		pd = runtime.NumCPU()
	}
	var conditions []bcs.BoundaryCondition
	for side, spec := range ip.BCs {
		conditions = append(conditions, bcs.New(spec.Type, bcs.NewSide(side), spec.Priority, spec.Parameters))
	}
	solver := fluxsolvers.New(fluxsolvers.NewSolverType(ip.FluxSolver), g, gas, conditions,
		fluxsolvers.Config{
			Scheme:         reconstruction.NewSchemeType(ip.Scheme),
			Limiter:        limiters.NewLimiterType(ip.Limiter),
			SensorEps:      ip.SensorEps,
			LowMachCutoff:  ip.LowMachCutoff,
			ParallelDegree: pd,
		})
	s := timeintegration.NewState(ip.Nx, ip.Ny, solver.GhostLayers())
	applyInitialConditions(ip.InitType, g, gas, &s)

	var monitor *server.Monitor
	if monitorAddr != "" {
		monitor = server.NewMonitor(monitorAddr)
		go monitor.Serve()
	}

	it := timeintegration.NewIntegrator(
		timeintegration.NewIntegratorType(ip.Integrator), solver, g, gas, pd)
	log.WithFields(log.Fields{
		"solver":     solver.Name(),
		"scheme":     ip.Scheme,
		"integrator": it.Scheme.Print(),
		"grid":       []int{ip.Nx, ip.Ny},
	}).Info("starting solve")

	var (
		t    float64
		iter int
	)
	mass0, _, _, energy0 := s.ConservedTotals(g)
	maxIter := ip.MaxIterations
	if maxIter == 0 {
		maxIter = 1 << 30
	}
	for t < ip.FinalTime && iter < maxIter {
		dt := it.MaxDT(ip.CFL, s)
		if t+dt > ip.FinalTime {
			dt = ip.FinalTime - t
		}
		resid := it.Step(&s, t, dt)
		t += dt
		iter++
		if monitor != nil {
			monitor.Publish(server.Sample{Iteration: iter, Time: t, DT: dt, Residual: resid})
		}
		if iter%100 == 0 || t >= ip.FinalTime {
			log.WithFields(log.Fields{"iter": iter, "t": t, "dt": dt, "resid": resid}).Info("step")
		}
	}
	if s.Rho.HasNaN() {
		log.Fatal("solution contains NaN")
	}
	mass, _, _, energy := s.ConservedTotals(g)
	log.WithFields(log.Fields{
		"mass_drift":   mass - mass0,
		"energy_drift": energy - energy0,
	}).Info("conservation check")
	log.WithFields(log.Fields{"iter": iter, "t": t}).Info("solve complete")
}

// applyInitialConditions fills the conserved state from the named analytic
// setup; the Sod cases run the canonical tube along x or y
func applyInitialConditions(initType string, g grid.Geometry, gas eos.IdealGas, s *timeintegration.State) {
	nx, ny := g.Extents()
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			var (
				x, y          = g.Centroid(i, j)
				rho, u, v, pr float64
			)
			switch strings.ToLower(initType) {
			case "sod_x":
				rho, u, pr = sod_shock_tube.InitialState(x)
			case "sod_y":
				rho, v, pr = sod_shock_tube.InitialState(y)
			case "uniform":
				rho, u, v, pr = 1, 0, 0, 1
			default:
				log.Fatalf("unknown InitType %q", initType)
			}
			s.Rho.Set(i, j, rho)
			s.RhoU.Set(i, j, rho*u)
			s.RhoV.Set(i, j, rho*v)
			s.RhoE.Set(i, j, gas.TotalEnergy(rho, u, v, pr))
		}
	}
}
