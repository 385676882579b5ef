package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/footron/foowm/internal/config"
)

var printDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration file",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.File == "" {
			fmt.Fprintln(out, "config: no file, using defaults")
			return nil
		}
		successColor.Fprint(out, "config: ok")
		fmt.Fprintf(out, " (%s)\n", res.File)
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if !printDefaults {
			res, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = res.Config
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# initial layout: %s\n", cfg.InitialLayout())
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	configPrintCmd.Flags().BoolVar(&printDefaults, "defaults", false, "Print built-in defaults (no files)")

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPrintCmd)
}
