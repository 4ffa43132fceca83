package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-pipeline/internal/config"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	logger *slog.Logger

	stdin          io.Reader
	stdout, stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: config.New(), stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "image-pipeline",
		Short: "Typed image-processing pipeline",
		Long: `image-pipeline applies chains of image operations (thresholding, filtering,
morphology, frequency transforms, labeling, geometry detection) to images.

Every image carries its kind (color, gray, binary, frequency) and a log of the
operations that produced it.

  image-pipeline run --recipe clean.yaml --in scan.png --out clean.png
  image-pipeline serve        MCP server on stdin/stdout
  image-pipeline ops          List available operations

Configuration is read from --config, then IMAGE_PIPELINE_* environment
variables (IMAGE_PIPELINE_LOG_LEVEL, IMAGE_PIPELINE_SERVER_MAX_IMAGES, ...).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("image-pipeline {{.Version}}\n  Build time: %s\n  Git commit: %s\n", BuildTime, GitCommit))

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCmd(a),
		newRunCmd(a),
		newOpsCmd(),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and builds the logger. Logs always go to
// stderr; stdout belongs to command output and the MCP protocol.
func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(a.stderr)
	return nil
}
