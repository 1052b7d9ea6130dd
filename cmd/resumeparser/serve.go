package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/cobra"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/loader"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resume parsing HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if cfg.Tracing.Enabled {
			shutdown, err := tracing.Init(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SamplerRatio)
			if err != nil {
				return fmt.Errorf("initializing tracing: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn().Err(err).Msg("trace shutdown failed")
				}
			}()
		}

		store, err := storage.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		engine, err := buildEngine(cfg, log)
		if err != nil {
			return err
		}
		docLoader, err := loader.New(ctx, loader.WithLogger(log))
		if err != nil {
			return err
		}
		parseHandler := handler.NewParseHandler(cfg, engine, docLoader, store, log)

		hlog.SetLogger(hertzzerolog.New())

		opts := []config.Option{
			server.WithHostPorts(cfg.Server.Address),
			server.WithMaxRequestBodySize(cfg.Server.MaxUploadMB << 20),
		}
		var h *server.Hertz
		if cfg.Tracing.Enabled {
			tracer, tracerCfg := hertztracing.NewServerTracer()
			opts = append(opts, tracer)
			h = server.Default(opts...)
			h.Use(hertztracing.ServerMiddleware(tracerCfg))
		} else {
			h = server.Default(opts...)
		}

		router.RegisterRoutes(h, parseHandler, cfg.Server.APIKey)

		log.Info().Str("address", cfg.Server.Address).Msg("starting resume parser API")
		h.Spin()
		return nil
	},
}
