package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/feyyazcankose/render-api-docs/internal/page"
	"github.com/spf13/cobra"
)

func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the API reference page",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output file (default: index.html, API.md for markdown)")
	flags.StringP("format", "f", "", "Page format: html, markdown")
	flags.String("title", "", "Page title (default: document title)")
	flags.String("theme", "", "Initial theme: dark, light")
	flags.Bool("dry-run", false, "Print the page instead of writing it")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := load(cmd)
	if err != nil {
		return err
	}
	cfg := s.config

	builder := page.NewBuilder(s.spec, s.synthesizer(),
		page.WithTitle(cfg.Title),
		page.WithTheme(cfg.Theme),
		page.WithBaseURL(s.baseURL()),
		page.WithExampleFormat(cfg.Examples.Format),
		page.WithLogger(s.logger),
	)
	view, err := builder.Build()
	if err != nil {
		return fmt.Errorf("building page: %w", err)
	}

	renderer, err := page.NewRenderer(cfg.Templates.Dir)
	if err != nil {
		return err
	}
	content, err := renderer.Render(view, page.Format(cfg.Format))
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	path := cfg.OutputPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cmd.PrintErrf("Written: %s (%d endpoints)\n", path, len(view.Endpoints))

	return nil
}
