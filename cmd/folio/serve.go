package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vengy/folio"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site",
	Long: `The serve command starts the web server. With --watch it also watches the
content directory and reloads the blog of every open session when the index
or a post changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := siteCfg
		if cmd.Flags().Changed("port") {
			cfg.Addr = fmt.Sprintf(":%d", servePort)
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch = serveWatch
		}
		if cfg.Watch && cfg.Source != "" && cfg.Source != folio.SourceFiles {
			log.Warn("--watch only applies to the files source, ignoring", "source", cfg.Source)
			cfg.Watch = false
		}

		src, closer, err := folio.OpenSource(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := folio.New(cfg, src, log)
		return app.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "port to listen on")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload blog views when content changes")
	rootCmd.AddCommand(serveCmd)
}
