package upload

import (
	"fmt"
	"path/filepath"

	"github.com/bmeg/inventory/config"
	"github.com/bmeg/inventory/logger"
	"github.com/bmeg/inventory/manifest"
	"github.com/bmeg/inventory/util"
	"github.com/spf13/cobra"
)

var configFile = ""
var dryRun = false

// Cmd is the declaration of the command line
var Cmd = &cobra.Command{
	Use:   "upload <manifest> <s3+http(s)://host/bucket/prefix>",
	Short: "Upload the files listed in a manifest, and the manifest, to object storage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifestPath := args[0]

		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}

		logger.InitWriter(cmd.ErrOrStderr(), cfg.Verbose, cfg.JSONLog)
		defer logger.Close()

		records, err := manifest.Read(manifestPath)
		if err != nil {
			return err
		}

		loc, err := util.ParseS3Location(args[1])
		if err != nil {
			return err
		}

		manifestKey := loc.Key(filepath.Base(manifestPath))
		for _, rec := range records {
			if loc.Key(rec.RelativePath) == manifestKey {
				return fmt.Errorf("manifest key %s would overwrite inventoried file %s, rename the manifest", manifestKey, rec.RelativePath)
			}
		}

		mc, err := util.GetS3Client(loc.URL)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := util.CheckBucket(ctx, mc, loc.Bucket); err != nil {
			return err
		}

		uploaded, present, missing := 0, 0, 0
		for _, rec := range records {
			local := filepath.Join(cfg.Root, filepath.FromSlash(rec.RelativePath))
			if !util.Exists(local) {
				logger.Error("Missing local file", "path", local)
				logger.AddSummaryError("FileMissing", "path", local)
				missing++
				continue
			}
			if size := util.FileSize(local); size != rec.FileSize {
				logger.Warn("File changed since scan", "path", local, "manifestSize", rec.FileSize, "size", size)
			}

			key := loc.Key(rec.RelativePath)
			size, found, err := util.ObjectSize(ctx, mc, loc.Bucket, key)
			if err != nil {
				return err
			}
			if found && size == rec.FileSize {
				logger.Debug("Already present", "key", key, "size", size)
				present++
				continue
			}
			if dryRun {
				logger.Info("Would upload", "path", local, "key", key)
				continue
			}
			if _, err := util.PutFile(ctx, mc, loc.Bucket, key, local, rec.Checksum); err != nil {
				return err
			}
			logger.Debug("Uploaded", "path", local, "key", key)
			uploaded++
		}

		if !dryRun {
			if _, err := util.PutFile(ctx, mc, loc.Bucket, manifestKey, manifestPath, ""); err != nil {
				return err
			}
		}
		logger.Info("Upload finished", "bucket", loc.Bucket, "uploaded", uploaded, "present", present, "missing", missing)
		return nil
	},
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", configFile, "Config file (default ./inventory.yaml if present)")
	flags.StringP("root", "r", config.DefaultRoot, "Directory the manifest paths are relative to")
	flags.BoolVarP(&dryRun, "dry-run", "n", dryRun, "Report what would be uploaded")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.Bool("json-log", false, "Log in JSON")
}
