package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sneakbit/internal/config"
)

var flagConfigWrite string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or write the effective configuration",
	Long: `Print the configuration after the search order and the flags are
applied. With --write, save it to a file instead; the written file can be
passed back with --config.

Search order: --config, ~/.sneakbit/configs/sneakbit.yaml,
./configs/sneakbit.yaml, built-in defaults.

Examples:
  sneakbit config
  sneakbit config --fps 60 --write ~/.sneakbit/configs/sneakbit.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigWrite, "write", "", "Write the configuration to this path")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigWrite != "" {
		path := config.ExpandHome(flagConfigWrite)
		if err := config.Write(path, appConfig); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(appConfig); err != nil {
		return err
	}
	return enc.Close()
}
