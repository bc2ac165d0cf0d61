package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// enginesCmd prints the configured engine pool and effective configuration.
var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "Show configured engines and effective configuration",
	Long: `Print the engine pool that would be built from the current
configuration, plus the effective configuration as YAML.

Example:
  mosaic engines`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := GetConfig()

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()

		info, err := yaml.Marshal(p.Info())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(cmd.OutOrStdout(), string(info)); err != nil {
			return err
		}

		effective, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", effective)
		return err
	},
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}
