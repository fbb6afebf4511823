package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sneakbit/internal/client"
	"github.com/vovakirdan/sneakbit/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own engine and launcher. The SSH user name
is the save data profile, so reconnecting continues the same game.
Arena matches of every user go to the same history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.sneakbit/host_key

With metrics enabled in the configuration, Prometheus metrics are
served on metrics.address at /metrics.

Examples:
  sneakbit serve                           # Listen on :23234 with auto-generated key
  sneakbit serve --ssh :2222               # Listen on port 2222
  sneakbit serve --host-key ./my_host_key  # Use specific host key
  sneakbit serve --db ./sneakbit.db        # Use specific database

Users can connect with:
  ssh alice@localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	r := openResources(cmd.Context())
	defer r.Close()

	cfg := tui.SSHServerConfig{
		Address:     appConfig.Server.Address,
		HostKeyPath: appConfig.Server.HostKeyPath,
		IdleTimeout: appConfig.Server.IdleTimeout,
		Engine:      engineConfig(appConfig.Engine),
		TickRate:    appConfig.Client.FPS,
		SoundBuffer: appConfig.Client.SoundBuffer,
		Joystick:    appConfig.Joystick,
	}
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = flagIdleTimeout
	}
	if cfg.SoundBuffer <= 0 {
		cfg.SoundBuffer = client.DefaultSoundBuffer
	}

	opts := []tui.SSHOption{tui.WithServerLogger(logger.WithPrefix("ssh"))}
	if r.store != nil {
		opts = append(opts, tui.WithStore(r.store))
	}
	if r.cache != nil {
		opts = append(opts, tui.WithCache(r.cache))
	}
	if r.metrics != nil {
		opts = append(opts, tui.WithMetrics(r.metrics))
	}

	server, err := tui.NewSSHServer(cfg, opts...)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting sneakbit SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(cmd.Context())
}
