package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prdstore/internal/adapters/driving/sse"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSE tool server",
	Long: `Start the HTTP server that exposes the PRD tools.

Endpoints:
  POST /sse      one {method, params} call, answered with one event
  GET  /health   service health
  GET  /         service info and tool list
  GET  /metrics  prometheus metrics

The listen address defaults to server.host and server.port (PORT is honoured).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default server.host)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	adapter, err := sse.NewAdapter(a.registry)
	if err != nil {
		return err
	}
	server := sse.NewServer(adapter, sse.Info{
		Version:              version,
		Storage:              a.settings.Storage.Backend.String(),
		Search:               a.settings.Search.Backend.String(),
		ConfirmationRequired: a.settings.Confirmation.Required,
	})

	addr := listenAddr(a.settings.Server.Host, a.settings.Server.Port)
	fmt.Fprintf(cmd.OutOrStdout(), "PRD server listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}

func listenAddr(host string, port int) string {
	if serveHost != "" {
		host = serveHost
	}
	if servePort > 0 {
		port = servePort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
