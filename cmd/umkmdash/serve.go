package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/umkm-jabar/umkmdash-cli/internal/config"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/server"
)

const defaultAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	Long:  "Loads the dataset once and serves /api/health, /api/meta, /api/download and /api/summary until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("serve")
		if err != nil {
			return err
		}
		debug := level == "debug"
		wireLogging(cmd, level)

		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}

		log, err := server.NewLogger(debug)
		if err != nil {
			return err
		}
		defer log.Sync()

		opts, err := config.ViewOptions(viper.GetViper())
		if err != nil {
			return err
		}

		doc, err := loadInput(cmd, "serve", dataset.Options{}, level == "quiet")
		if err != nil {
			return err
		}

		addr := viper.GetString("serve.addr")
		if addr == "" {
			addr = defaultAddr
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("dataset loaded",
			zap.String("source", doc.Meta.Source),
			zap.Int("rows", len(doc.Data)),
			zap.Ints("years", doc.Meta.Years),
		)
		return server.New(doc, opts, log).Run(ctx, addr)
	},
}

func init() {
	addInputFlags(serveCmd, "serve")
	addLogFlags(serveCmd, "serve")

	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}
