package main

import (
	"fmt"

	"lead-service/internal/seed"
	"lead-service/pkg/database"
	"lead-service/pkg/jwtutil"

	"github.com/spf13/cobra"
)

func newLeadsCommand() *cobra.Command {
	var (
		count    int
		daysBack int
		stores   []int
		seedVal  uint64
	)

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Generate fake leads spread over a day window",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := seed.Leads(database.GetDB(), seed.LeadOptions{
				Count:    count,
				DaysBack: daysBack,
				StoreIDs: stores,
				Seed:     seedVal,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created %d leads over the last %d days\n", created, daysBack)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "number of leads to generate")
	cmd.Flags().IntVar(&daysBack, "days-back", 30, "days back to distribute leads over")
	cmd.Flags().IntSliceVar(&stores, "stores", []int{1}, "store ids to assign")
	cmd.Flags().Uint64Var(&seedVal, "seed", 0, "random seed (0 for non-deterministic)")
	return cmd
}

func newClearLeadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-leads",
		Short: "Delete every lead row",
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := seed.ClearLeads(database.GetDB())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d leads\n", deleted)
			return nil
		},
	}
}

func newAnalyticsCommand() *cobra.Command {
	var (
		count   int
		days    int
		seedVal uint64
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Generate fake page analytics events",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := seed.PageAccesses(database.GetDB(), seed.AnalyticsOptions{
				Count: count,
				Days:  days,
				Seed:  seedVal,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created %d page accesses over the last %d days\n", created, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 500, "number of page accesses to generate")
	cmd.Flags().IntVar(&days, "days", 7, "days back to distribute events over")
	cmd.Flags().Uint64Var(&seedVal, "seed", 0, "random seed (0 for non-deterministic)")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var (
		userID uint
		email  string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a dashboard JWT for local API access",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := jwtutil.GenerateToken(userID, email, role)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user-id", 1, "user id claim")
	cmd.Flags().StringVar(&email, "email", "dev@leads.local", "email claim")
	cmd.Flags().StringVar(&role, "role", "admin", "role claim")
	return cmd
}

func newClearAnalyticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-analytics",
		Short: "Delete every page analytics row",
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := seed.ClearPageAccesses(database.GetDB())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d page accesses\n", deleted)
			return nil
		},
	}
}
