package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claudecord/claudecord/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "claudecord",
		Short:         "Discord bot for conversing with Claude",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the ops HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := *cfgPath
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			if path == "" {
				path = config.DefaultConfigPath
			}
			runServe(path)
			return nil
		},
	}
}
