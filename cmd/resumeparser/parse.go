package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-parser-go/internal/loader"
	"resume-parser-go/internal/types"
)

var (
	parseMethod string
	parseOutput string
	parsePretty bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse one resume file and print the structured record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if parseMethod == "" {
			parseMethod = cfg.Parser.Method
		}
		ctx := cmd.Context()

		docLoader, err := loader.New(ctx, loader.WithLogger(log))
		if err != nil {
			return err
		}
		doc, err := docLoader.LoadFile(ctx, args[0])
		if err != nil {
			return err
		}

		engine, err := buildEngine(cfg, log)
		if err != nil {
			return err
		}
		result, err := engine.Parse(ctx, doc.Text, types.ParseMethod(parseMethod))
		if err != nil {
			return err
		}

		var payload []byte
		if parsePretty {
			payload, err = json.MarshalIndent(result, "", "  ")
		} else {
			payload, err = json.Marshal(result)
		}
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}

		if parseOutput != "" {
			if err := os.WriteFile(parseOutput, append(payload, '\n'), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", parseOutput, err)
			}
			log.Info().Str("path", parseOutput).Msg("wrote parse result")
			return nil
		}
		fmt.Println(string(payload))
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseMethod, "method", "m", "", "extraction method: rule, semantic or both (default from config)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write the result to a file instead of stdout")
	parseCmd.Flags().BoolVarP(&parsePretty, "pretty", "p", false, "indent the JSON output")
}
