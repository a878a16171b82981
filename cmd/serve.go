package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"backend-probe/core/loader"
	"backend-probe/core/logger"
	"backend-probe/core/middleware/auth"
	"backend-probe/core/middleware/rayid"
	"backend-probe/feature/probe"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the probes over HTTP",
	Long:  `Starts an HTTP server exposing the probes under /probe, for uptime checks and dashboards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		svc, cleanup, err := buildService(cfg, logg)
		defer cleanup()
		if err != nil {
			return err
		}

		sample, err := parseRow(rowFlags)
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(probe.NewFeature(svc, probe.RunOptions{
			Table:   cfg.Probe.Table,
			Columns: cfg.Probe.ColumnList(),
			Sample:  sample,
		}))

		// Ray id first so every log line below carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	serveCmd.Flags().StringArrayVar(&rowFlags, "row", nil, "Default round-trip sample field as key=value (repeatable)")
	RootCmd.AddCommand(serveCmd)
}
