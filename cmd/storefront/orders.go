package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/notify"
	"github.com/example/buttg/pkg/repository"
	"github.com/spf13/cobra"
)

var pendingLimit int

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect recorded orders",
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List orders whose confirmation or alert email did not go out",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Database.Driver == "" {
			return errors.New("database.driver is not configured; no orders are recorded")
		}

		db, err := repository.OpenDatabase(&cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		orders, err := repository.NewOrderRepository(db).ListUndelivered(ctx, pendingLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tCREATED\tCUSTOMER\tEMAIL\tTOTAL\tCUSTOMER MAIL\tRESTAURANT MAIL")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				o.ID, o.CreatedAt.Format(time.RFC3339), o.CustomerName, o.Email,
				notify.Rupees(o.TotalAmount), o.CustomerNotification, o.RestaurantNotification)
		}
		return w.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <order-id>",
	Short: "Show the audit trail of one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.MongoDB.URI == "" {
			return errors.New("mongodb.uri is not configured; no audit log is kept")
		}

		repo, err := repository.NewMongoRepository(&cfg.MongoDB, cfg.Server.Name)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		defer repo.Close(ctx)

		entries, err := repo.OrderHistory(ctx, args[0], int64(pendingLimit))
		if err != nil {
			return fmt.Errorf("failed to read audit log: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tDATA")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%v\n", e.CreatedAt.Format(time.RFC3339), e.Action, e.Data)
		}
		return w.Flush()
	},
}

func init() {
	ordersCmd.PersistentFlags().IntVar(&pendingLimit, "limit", 50, "maximum number of rows to list")
	ordersCmd.AddCommand(pendingCmd, historyCmd)
}
