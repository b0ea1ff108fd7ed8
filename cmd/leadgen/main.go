package main

import (
	"fmt"
	"os"

	"lead-service/pkg/config"
	"lead-service/pkg/database"
	"lead-service/pkg/jwtutil"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "leadgen",
		Short: "Generate and clear fake data for the lead service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			jwtutil.Initialize(&appConfig.JWT)
			if cmd.Name() == "token" {
				return nil
			}
			if err := database.InitDB(appConfig); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			return nil
		},
	}

	root.AddCommand(
		newLeadsCommand(),
		newClearLeadsCommand(),
		newAnalyticsCommand(),
		newClearAnalyticsCommand(),
		newTokenCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
