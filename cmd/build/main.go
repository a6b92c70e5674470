package build

import (
	"time"

	"github.com/bmeg/inventory/config"
	"github.com/bmeg/inventory/logger"
	"github.com/bmeg/inventory/manifest"
	"github.com/bmeg/inventory/util"
	"github.com/spf13/cobra"
)

var configFile = ""

// Cmd is the declaration of the command line
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Scan a directory tree and write a CSV manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}

		logger.InitWriter(cmd.ErrOrStderr(), cfg.Verbose, cfg.JSONLog)
		defer logger.Close()

		outPath, err := util.RenderOutputPath(cfg.Output, cfg.Root, cfg.Algorithm, time.Now())
		if err != nil {
			return err
		}

		if len(cfg.Exclude) > 0 {
			logger.Info("Excluding", "patterns", cfg.Exclude)
		}

		skipped := 0
		records, err := manifest.Build(cfg.Root, manifest.Options{
			Algorithm: cfg.Algorithm,
			Exclude:   cfg.Exclude,
			OnSkip:    func(string, error) { skipped++ },
		})
		if err != nil {
			return err
		}

		if outPath == "-" {
			err = manifest.WriteTo(records, cmd.OutOrStdout())
		} else {
			err = manifest.Write(records, outPath)
		}
		if err != nil {
			return err
		}
		logger.Info("Manifest written", "output", outPath, "files", len(records), "skipped", skipped, "algorithm", cfg.Algorithm)
		return nil
	},
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", configFile, "Config file (default ./inventory.yaml if present)")
	flags.StringP("root", "r", config.DefaultRoot, "Directory to inventory")
	flags.StringP("output", "o", config.DefaultOutput, "Manifest path, '-' for stdout. Accepts {{date}}, {{time}}, {{algorithm}} and {{root}}")
	flags.StringP("algorithm", "a", config.DefaultAlgorithm, "Checksum algorithm")
	flags.StringArrayP("exclude", "e", []string{}, "Glob of root relative paths to exclude")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.Bool("json-log", false, "Log in JSON")
}
