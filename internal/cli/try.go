package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/nav"
	"github.com/feyyazcankose/render-api-docs/internal/tryit"
	"github.com/spf13/cobra"
)

func NewTryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "try <METHOD> <path> | try <anchor>",
		Short: "Simulate a request and print the simulated response",
		Long: `Build the request the try-it form would send, check it against the document
and print a simulated response. Nothing is sent over the network.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runTry,
	}

	flags := cmd.Flags()
	flags.StringArrayP("param", "p", nil, "Parameter value as name=value (repeatable)")
	flags.StringArrayP("header", "H", nil, "Extra header as name=value (repeatable)")
	flags.String("token", "", "Bearer token")
	flags.StringP("body", "d", "", "JSON request body")
	flags.String("body-file", "", "Read the JSON request body from a file")
	flags.Bool("repair", false, "Repair malformed JSON bodies instead of rejecting them")

	return cmd
}

func runTry(cmd *cobra.Command, args []string) error {
	s, err := load(cmd)
	if err != nil {
		return err
	}

	op, err := findOperation(s.spec, args)
	if err != nil {
		return err
	}

	in, err := tryInput(cmd)
	if err != nil {
		return err
	}

	sim := tryit.New(s.spec, s.synthesizer(),
		tryit.WithDocument(s.result.Source),
		tryit.WithBaseURL(s.baseURL()),
		tryit.WithLogger(s.logger),
	)
	result, err := sim.Run(cmd.Context(), op, in)
	if err != nil {
		var inputErr *tryit.InputError
		if errors.As(err, &inputErr) {
			return fmt.Errorf("%s %s: %w", op.Method, op.Path, inputErr)
		}
		return err
	}

	cmd.PrintErrf("%s %s\n", result.Request.Method, result.Request.URL)
	for _, v := range result.Violations {
		cmd.PrintErrf("Warning: %s\n", v)
	}

	data, err := result.JSON()
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}

// findOperation accepts either a method and a path or an endpoint anchor.
func findOperation(spec *model.Spec, args []string) (*model.Operation, error) {
	var method model.Method
	var path string

	if len(args) == 2 {
		m, ok := model.ParseMethod(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown method: %s", args[0])
		}
		method, path = m, args[1]
	} else {
		entry, err := nav.Build(spec).Lookup(args[0])
		if err != nil {
			return nil, err
		}
		method, path = entry.Method, entry.Path
	}

	op, ok := spec.Operation(method, path)
	if !ok {
		return nil, fmt.Errorf("operation not found: %s %s", method, path)
	}
	return op, nil
}

func tryInput(cmd *cobra.Command) (tryit.Input, error) {
	flags := cmd.Flags()

	params, _ := flags.GetStringArray("param")
	headers, _ := flags.GetStringArray("header")
	token, _ := flags.GetString("token")
	body, _ := flags.GetString("body")
	bodyFile, _ := flags.GetString("body-file")
	repair, _ := flags.GetBool("repair")

	in := tryit.Input{Token: token, Body: body, Repair: repair}

	var err error
	if in.Params, err = pairs("param", params); err != nil {
		return in, err
	}
	if in.Headers, err = pairs("header", headers); err != nil {
		return in, err
	}

	if bodyFile != "" {
		if body != "" {
			return in, fmt.Errorf("--body and --body-file are mutually exclusive")
		}
		data, err := os.ReadFile(bodyFile)
		if err != nil {
			return in, fmt.Errorf("reading body file: %w", err)
		}
		in.Body = string(data)
	}

	return in, nil
}

func pairs(flag string, values []string) (map[string]string, error) {
	m := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected name=value", flag, v)
		}
		m[name] = value
	}
	return m, nil
}
