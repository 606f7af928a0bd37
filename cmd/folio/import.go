package main

import (
	"github.com/spf13/cobra"

	"github.com/vengy/folio/posts"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Copy a content directory into a SQLite database",
	Long: `The import command loads the index and every post body from a content
directory and replaces the contents of the SQLite database at --db (or the
configured databasePath). Posts whose body file is missing are imported
without content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := siteCfg.ContentDir
		if len(args) == 1 {
			dir = args[0]
		}
		src := posts.NewDirSource(dir)
		src.IndexPath = siteCfg.IndexFile

		ctx := cmd.Context()
		list, missing, err := posts.Collect(ctx, src)
		if err != nil {
			return err
		}
		for _, id := range missing {
			log.Warn("post has no body", "post", string(id))
		}

		db, err := posts.CreateSQLite(siteCfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Replace(ctx, list); err != nil {
			return err
		}
		log.Info("imported posts", "db", siteCfg.DatabasePath, "posts", len(list), "missing", len(missing))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
