// Build command for the stackbox CLI.
package main

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the bottom and lid and write them to the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		files, err := buildAndExport(cmd.Context(), newKernel(c), c)
		if err != nil {
			return err
		}
		printFiles(cmd.OutOrStdout(), files)
		return nil
	},
}
