package cli

import (
	"fmt"
	"log/slog"

	"github.com/feyyazcankose/render-api-docs/internal/config"
	"github.com/feyyazcankose/render-api-docs/internal/loader"
	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/spf13/cobra"
)

type session struct {
	config *config.Config
	result *loader.Result
	spec   *model.Spec
	logger *slog.Logger
}

// load reads the configuration and the document it names, then applies the
// tag filters.
func load(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd)

	result, err := loader.LoadFile(cmd.Context(), cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	spec, err := loader.Transform(result)
	if err != nil {
		return nil, fmt.Errorf("transforming spec: %w", err)
	}
	spec.FilterTags(cfg.IncludeTags, cfg.ExcludeTags)

	logger.Debug("loaded document",
		"version", result.Version,
		"title", spec.Info.Title,
		"operations", len(spec.Operations),
	)

	return &session{config: cfg, result: result, spec: spec, logger: logger}, nil
}

func (s *session) synthesizer() *schema.Synthesizer {
	branch := s.config.Examples.Branch
	return schema.NewSynthesizer(s.spec.Document,
		schema.WithCycleStrategy(schema.CycleStrategy(s.config.Examples.CycleStrategy)),
		schema.WithBranchSelector(func(string, []any) int { return branch }),
	)
}

func (s *session) baseURL() string {
	if s.config.BaseURL != "" {
		return s.config.BaseURL
	}
	return s.spec.BaseURL()
}
