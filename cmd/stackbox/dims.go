// Dims command for the stackbox CLI.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/stackbox/pkg/box"
	"github.com/chazu/stackbox/pkg/kernel/trace"
	"github.com/chazu/stackbox/pkg/params"
)

var dimsTrace bool

var dimsCmd = &cobra.Command{
	Use:   "dims",
	Short: "Print the derived dimensions without building",
	Long: `Print the parameters, every derived dimension and any validation
findings as YAML. With --trace the box is built on a recording kernel and
the kernel calls are listed in order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		return writeDims(cmd.OutOrStdout(), c.Params, dimsTrace)
	},
}

func init() {
	dimsCmd.Flags().BoolVar(&dimsTrace, "trace", false, "list the kernel calls of a dry-run build")
}

type dimsReport struct {
	Params   params.Params              `yaml:"params"`
	Derived  params.Derived             `yaml:"derived"`
	Warnings []params.ValidationWarning `yaml:"warnings,omitempty"`
	Errors   []string                   `yaml:"errors,omitempty"`
}

// writeDims writes the report for p. Invalid parameters are reported in
// full before the error is returned.
func writeDims(w io.Writer, p params.Params, withTrace bool) error {
	res := p.Check()
	report := dimsReport{
		Params:   p,
		Derived:  p.Derive(),
		Warnings: res.Warnings,
	}
	for _, e := range res.Errors {
		report.Errors = append(report.Errors, e.Error())
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := res.Err(); err != nil {
		return err
	}
	if !withTrace {
		return nil
	}

	k := trace.New()
	if _, err := box.Build(k, p, box.WithLogger(logger)); err != nil {
		return err
	}
	fmt.Fprintln(w, "---")
	for _, op := range k.Ops() {
		fmt.Fprintln(w, op)
	}
	return nil
}
