// =============================================================================
// Payment Advice Generator - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which exposes generation over HTTP.
//
// ENDPOINTS:
//   POST /api/v1/invoices          multipart upload -> zip download
//   POST /api/v1/invoices/preview  multipart upload -> entries per recipient
//   GET  /healthz
//
// =============================================================================

package cmd

import (
	"github.com/ginjaninja78/payment-advice-generator/internal/brand"
	"github.com/ginjaninja78/payment-advice-generator/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve invoice generation over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}

		logger := newLogger(cfg)

		loader := brand.NewLoader(cfg.Brand.FetchTimeout, logger)
		api := server.NewWebAPI(logger, server.Config{
			Addr:           cfg.Server.Addr,
			MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
			ArchiveName:    cfg.Output.ArchiveName,
			Dependencies: server.Dependencies{
				Invoices: server.NewGeneratorService(loader, cfg.Brand.Logo),
				Config:   cfg,
			},
		})

		return api.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
