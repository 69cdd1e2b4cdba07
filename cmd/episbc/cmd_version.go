package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"episbc/app"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": app.Version})
			} else {
				fmt.Printf("episbc version %s\n", app.Version)
			}
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
