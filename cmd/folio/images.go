package main

import (
	"github.com/spf13/cobra"

	"github.com/vengy/folio"
)

var imagesCmd = &cobra.Command{
	Use:   "optimize-images [dir]",
	Short: "Downscale images wider than 800px to JPEG",
	Long: `The optimize-images command walks dir (default: the configured static
directory) and replaces every JPEG, PNG or GIF wider than 800 pixels with a
resized JPEG named after the slug of the original file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := siteCfg.StaticDir
		if len(args) == 1 {
			dir = args[0]
		}
		done, err := folio.OptimizeImages(dir, log)
		if err != nil {
			return err
		}
		log.Info("optimized images", "dir", dir, "count", len(done))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)
}
