package cli

import (
	"fmt"

	"github.com/feyyazcankose/render-api-docs/internal/config"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/spf13/cobra"
)

func NewExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example <pointer>",
		Short: "Print the example synthesized for a schema",
		Long: `Print the example synthesized for the schema at a document pointer,
for instance components/schemas/Pet or "#/paths/~1pets/get/responses/200".`,
		Args: cobra.ExactArgs(1),
		RunE: runExample,
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", "", "Example format: json, yaml")
	_ = flags.SetAnnotation("format", config.KeyAnnotation, []string{"examples.format"})
	flags.Bool("describe", false, "Also print the type label and whether the schema has nested content")

	return cmd
}

func runExample(cmd *cobra.Command, args []string) error {
	s, err := load(cmd)
	if err != nil {
		return err
	}

	node, err := s.spec.Document.LookupPointer(args[0])
	if err != nil {
		return err
	}

	value, issues := s.synthesizer().Generate(node)
	for _, issue := range issues {
		s.logger.Debug("example placeholder", "kind", issue.Kind, "path", issue.Path, "ref", issue.Ref)
	}

	var data []byte
	if s.config.Examples.Format == "yaml" {
		data, err = schema.MarshalYAML(value)
	} else {
		data, err = schema.MarshalJSON(value, "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding example: %w", err)
	}

	out := cmd.OutOrStdout()
	if describe, _ := cmd.Flags().GetBool("describe"); describe {
		introspector := schema.NewIntrospector(s.spec.Document)
		fmt.Fprintf(out, "type: %s\n", introspector.TypeLabel(node))
		fmt.Fprintf(out, "nested: %t\n", introspector.HasNestedContent(node))
	}
	fmt.Fprint(out, string(data))

	return nil
}
