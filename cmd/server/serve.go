package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := app.manager.Listen(ctx)
	defer stop()

	server := &fasthttp.Server{
		Handler:      app.handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	serveErr := make(chan error, 1)
	app.manager.Add("http_server",
		func(context.Context) error {
			go func() {
				log.Info("server started", zap.String("address", cfg.Address()))
				serveErr <- server.ListenAndServe(cfg.Address())
			}()
			return nil
		},
		func(ctx context.Context) error {
			return server.ShutdownWithContext(ctx)
		},
	)

	if err := app.manager.Start(ctx); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error("server crashed", zap.Error(err))
			runErr = err
		}
	}

	if err := app.manager.Shutdown(context.Background()); err != nil {
		log.Error("graceful shutdown error", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
