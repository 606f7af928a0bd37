package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vengy/folio/posts"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Rebuild the post index from post front matter",
	Long: `The index command reads the front matter (id, title, date, summary) of every
Markdown file under <dir>/posts and writes <dir>/posts.json, newest first.
dir defaults to the configured content directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := siteCfg.ContentDir
		if len(args) == 1 {
			dir = args[0]
		}
		list, err := posts.BuildIndex(os.DirFS(dir), posts.DefaultBodyDir)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, filepath.FromSlash(siteCfg.IndexFile))
		if err := posts.WriteIndex(out, list); err != nil {
			return err
		}
		log.Info("wrote index", "path", out, "posts", len(list))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
