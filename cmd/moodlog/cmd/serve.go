package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long:  "Serves the moodlog JSON API on a local address and reloads a user dictionary when it changes.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "listen port (default 8417)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}

	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}

	fmt.Printf("⚡ moodlog serving journal %q at %s\n", a.Store.Journal(), a.WebServer.URL())
	if a.Watcher != nil {
		fmt.Printf("  watching %s\n", a.Config.Dictionary)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}
