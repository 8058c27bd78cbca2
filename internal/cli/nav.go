package cli

import (
	"fmt"

	"github.com/feyyazcankose/render-api-docs/internal/nav"
	"github.com/spf13/cobra"
)

func NewNavCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation tree with endpoint anchors",
		Args:  cobra.NoArgs,
		RunE:  runNav,
	}
}

func runNav(cmd *cobra.Command, args []string) error {
	s, err := load(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, group := range nav.Build(s.spec).Groups {
		fmt.Fprintln(out, group.Name)
		for _, e := range group.Entries {
			fmt.Fprintf(out, "  %-6s %-30s %s  #%s\n", e.MethodLabel(), e.Path, e.Summary, e.Anchor)
		}
	}

	return nil
}
