package cli

import (
	"github.com/spf13/cobra"

	"github.com/zmanna/rapid-math/internal/config"
	"github.com/zmanna/rapid-math/internal/game"
	"github.com/zmanna/rapid-math/internal/ui"
)

// NewPlayCmd builds the CLI subcommand for the desktop play mode.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := game.DefaultRules()
			// A missing config file is fine for local play; defaults apply.
			if cfg, err := config.Load(*configPath); err == nil {
				rules = rulesFromConfig(cfg)
			}
			return ui.Run(rules)
		},
	}
}
