package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/log"
	"github.com/alnah/go-cmsblocks/internal/server"
	"github.com/alnah/go-cmsblocks/internal/site"
)

// runServe runs the HTTP service until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}
	if flags.assets.style != "" {
		cfg.Assets.Style = flags.assets.style
	}
	if flags.assets.templateSet != "" {
		cfg.Assets.TemplateSet = flags.assets.templateSet
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}

	logger, err := newLogger(cfg, flags.common, env)
	if err != nil {
		return err
	}

	bundle, err := site.FromConfig(cfg)
	if err != nil {
		return err
	}

	opts := append(site.RendererOptions(cfg, bundle), cmsblocks.WithLogger(log.WithComponent(logger, "renderer")))
	// Fail fast on broken assets instead of on the first request.
	probe, err := cmsblocks.NewRenderer(opts...)
	if err != nil {
		return err
	}
	_ = probe.Close()

	pool := cmsblocks.NewRendererPool(cmsblocks.ResolvePoolSize(cfg.Render.Workers), opts...)
	defer pool.Close()

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		RateLimit:    cfg.Server.RateLimit,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		CacheTTL:     cfg.Server.CacheTTL,
		Limits:       bundle.Limits,
		Viewports:    bundle.Viewports,
		Version:      Version,
	}, server.PoolRenderer{Pool: pool}, logger)

	return srv.Run(ctx)
}
