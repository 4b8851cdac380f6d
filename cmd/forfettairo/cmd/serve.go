package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MakhBeth/forfettAIro/internal/server"
)

var (
	serveAddr  string
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Expose the ingestion pipeline over HTTP: parse, validate, batch
import, profile auto-population and backup endpoints, all backed by
the local store file.

Examples:
  forfettairo serve
  forfettairo serve --addr :9090 --debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (env: FORFETTAIRO_ADDR)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable request logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = runtimeCfg.Addr
	}

	srv := server.NewServer(&server.Config{
		Address:      addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Debug:        serveDebug,
	}, openStore())

	return srv.Run()
}
