// Command resumeparser extracts structured data from resumes, either as a
// one-shot CLI parse or as an HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/embedding"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/taxonomy"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "resumeparser",
	Short:         "Parse resumes into structured records",
	Long:          "resumeparser extracts contact, skills, education, experience, project and certification data from resumes using rule-based and embedding-driven extraction.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: config.yaml in . or ./configs)")
	rootCmd.AddCommand(parseCmd, serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		WithCaller: cfg.Logger.WithCaller,
	})
	return cfg, log, nil
}

// buildEngine assembles the extraction engine from configuration: taxonomy
// with optional overlay, tunables, and the embedder when an API key is
// configured.
func buildEngine(cfg *config.Config, log zerolog.Logger) (*parser.Engine, error) {
	var tax *taxonomy.Taxonomy
	var err error
	if cfg.Taxonomy.OverlayPath != "" {
		tax, err = taxonomy.Load(cfg.Taxonomy.OverlayPath)
		if err != nil {
			return nil, fmt.Errorf("loading taxonomy overlay: %w", err)
		}
	} else {
		tax = taxonomy.Default()
	}

	opts := []parser.EngineOption{parser.WithEngineLogger(log)}
	if cfg.Embedding.APIKey != "" {
		emb, err := embedding.NewOpenAIEmbedder(cfg.Embedding.APIKey,
			embedding.WithModel(cfg.Embedding.Model),
			embedding.WithBaseURL(cfg.Embedding.BaseURL),
			embedding.WithDimensions(cfg.Embedding.Dimensions),
			embedding.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		opts = append(opts, parser.WithEmbedder(emb))
	}

	return parser.NewEngine(tax, parser.EngineConfig{
		HeaderThreshold:     cfg.Parser.HeaderThreshold,
		ConfidenceThreshold: cfg.Parser.ConfidenceThreshold,
		TieEpsilon:          cfg.Parser.TieEpsilon,
		MinChunkChars:       cfg.Parser.MinChunkChars,
		MaxChunkChars:       cfg.Parser.MaxChunkChars,
		MaxSkills:           cfg.Parser.MaxSkills,
	}, opts...)
}
