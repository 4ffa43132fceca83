package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-pipeline/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline as an MCP server over stdin/stdout",
		Long: `Serve speaks JSON-RPC 2.0 (MCP) on stdin and stdout, one message per line.
Configure it in your MCP client; logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)
			srv := server.New(a.cfg, Version, a.logger)
			return srv.Run(cmd.Context(), a.stdin, a.stdout)
		},
	}
	cmd.Flags().Int("max-images", 0, "maximum images held by the session store")
	_ = a.v.BindPFlag("server.max_images", cmd.Flags().Lookup("max-images"))
	return cmd
}
