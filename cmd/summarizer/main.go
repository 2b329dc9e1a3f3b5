package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chuqudee-sand/feedback-summarizer/config"
	srv "github.com/chuqudee-sand/feedback-summarizer/internal/server"
)

func main() {
	root := &cobra.Command{Use: "summarizer"}
	root.AddCommand(serveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the summarization HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return serve
}
