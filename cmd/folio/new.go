package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vengy/folio/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new folio site",
	Example: `  folio new mysite
  folio new github.com/ada/mysite`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := scaffold.NewData(args[0], time.Now())
		fmt.Printf("Creating new folio site: %s\n\n", data.ProjectName)

		created, err := scaffold.Generate(data.ProjectName, data)
		if err != nil {
			return err
		}
		for _, f := range created {
			fmt.Printf("  created %s\n", f)
		}

		fmt.Println()
		fmt.Println("Done! Next steps:")
		fmt.Println()
		fmt.Printf("  cd %s\n", data.ProjectName)
		fmt.Println("  folio serve --watch")
		fmt.Println()
		fmt.Println("Edit config.yaml to set your profile, and set sessionSecret for production.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
