package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sumblocks/internal/games/sumblocks"
	"github.com/vovakirdan/sumblocks/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Sum Blocks SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the mode menu.
All users share the server's leaderboard.

Settings come from the server section of the config file; flags override them.

Examples:
  sumblocks serve                           # Listen on the configured address
  sumblocks serve --ssh :2223               # Listen on port 2223
  sumblocks serve --host-key ./my_host_key  # Use specific host key
  sumblocks serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	server := appConfig.Server
	if cmd.Flags().Changed("ssh") {
		server.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		server.HostKey = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		server.IdleTimeoutMinutes = flagIdleTimeout
	}

	cfg := tui.SSHServerConfig{
		Address:     server.Address,
		HostKeyPath: server.HostKey,
		DBPath:      appConfig.Storage.Path,
		IdleTimeout: server.IdleTimeout(),
	}

	srv, err := tui.NewSSHServer(cfg, tui.Options{
		Logger:       logger.WithPrefix("sumblocks-ssh"),
		Mouse:        appConfig.UI.Mouse,
		TickInterval: sumblocks.TickInterval,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	port := "2222"
	if _, p, splitErr := net.SplitHostPort(cfg.Address); splitErr == nil {
		port = p
	}
	fmt.Printf("Starting Sum Blocks SSH server on %s\n", srv.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	fmt.Println("Press Ctrl+C to stop")

	return srv.ListenAndServe()
}
