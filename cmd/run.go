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
	"fmt"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stagbc/bc"
	"stagbc/config"
	"stagbc/grid"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the constraint state over the configured time steps",
	Long: `Reads a parameter file, builds the grid and the boundary condition
context, then steps through time rebuilding the constraint lists each step
and reporting their sizes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			input, _   = cmd.Flags().GetString("input")
			steps, _   = cmd.Flags().GetInt("steps")
			prof, _    = cmd.Flags().GetBool("profile")
			verbose, _ = cmd.Flags().GetBool("verbose")
		)
		if prof {
			defer profile.Start().Stop()
		}
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		p, err := config.Load(input)
		if err != nil {
			return err
		}
		p.Print()
		if steps > 0 {
			p.Time.Steps = steps
		}
		return runSteps(p)
	},
}

func runSteps(p *config.Parameters) error {
	var (
		g = grid.NewUniform(p.Grid.Min, p.Grid.Max,
			p.Grid.Cells[0], p.Grid.Cells[1], p.Grid.Cells[2])
		dof = grid.DOFIndex{Mode: grid.Coupled, Lnv: g.NumVelDOF(), Lnp: g.NumCells()}
	)
	b, err := bc.New(g, bc.SingleRank{}, dof, p)
	if err != nil {
		return err
	}
	if p.FixCell {
		if err = b.LoadFixedCells(p.FixCellFile); err != nil {
			return err
		}
	}

	var (
		t  float64
		dt = p.Time.Dt
	)
	for step := 0; step < p.Time.Steps; step++ {
		b.StretchGrid(t, dt)
		if err = b.Apply(t, dt, false); err != nil {
			return err
		}
		nvel, npres := b.SPC().NumSPC()
		log.WithFields(log.Fields{
			"step": step,
			"t":    t,
			"vel":  nvel,
			"pres": npres,
		}).Info("constraints rebuilt")

		// hand the solver globally addressed lists, then return to
		// local addressing for the next rebuild
		if err = b.SPC().Shift(bc.GlobalAddressing); err != nil {
			return err
		}
		if err = b.SPC().Shift(bc.LocalAddressing); err != nil {
			return err
		}
		t += dt
	}
	fmt.Printf("completed %d steps to t = %v\n", p.Time.Steps, t)
	return nil
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("input", "I", "input.yaml", "parameter file in YAML format")
	RunCmd.Flags().Int("steps", 0, "override the configured number of time steps")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
	RunCmd.Flags().BoolP("verbose", "v", false, "debug logging")
}
