package cli

import (
	"log/slog"

	"github.com/feyyazcankose/render-api-docs/internal/config"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "apidocs",
		Short:         "Render an API reference from an OpenAPI document",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Log example placeholders and other details")
	config.BindCommonFlags(root)

	root.AddCommand(
		NewRenderCmd(),
		NewExampleCmd(),
		NewNavCmd(),
		NewTryCmd(),
	)

	return root
}

// newLogger writes text logs to the command's stderr.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
