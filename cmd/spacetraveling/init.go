package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/spacetraveling/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new spacetraveling project",
	Args:  cobra.ExactArgs(1),
	// init runs before any config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		data := scaffold.NewData(dir)

		fmt.Printf("Creating new spacetraveling project: %s\n\n", dir)
		err := scaffold.Write(dir, data, func(path string) {
			fmt.Printf("  created %s\n", path)
		})
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("Done! Next steps:")
		fmt.Println()
		fmt.Printf("  cd %s\n", dir)
		fmt.Println("  cp .env.example .env")
		fmt.Println("  spacetraveling contentapi &")
		fmt.Println("  spacetraveling serve")
		fmt.Println()
		fmt.Println("Set SPACETRAVELING_SESSION_SECRET in .env before serving.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the spacetraveling version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spacetraveling %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(initCmd, versionCmd)
}
