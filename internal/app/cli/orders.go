package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/export"
	ordersmemory "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

func newListCommand(env *environment) *cobra.Command {
	var status, search, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders matching a status filter and search term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseStatusFilter(status)
			if err != nil {
				return fmt.Errorf("--status %q: %w", status, err)
			}
			backends, cleanup, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			orders, err := ordersapp.NewService(backends.Orders).FetchAllOrders(cmd.Context())
			if err != nil {
				return err
			}
			filtered := domain.Filter(orders, filter, search)
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), export.NewSnapshot(orders, filter, search, env.opts.now()))
			}
			return writeOrderTable(cmd.OutOrStdout(), filtered, len(orders))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter (All, Pending, Processing, Shipped, Delivered, Cancelled)")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive match on order id, customer email or name")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	return cmd
}

func newStatsCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-status counts and delivered revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backends, cleanup, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := ordersapp.NewService(backends.Orders).Statistics(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, status := range domain.Statuses {
				fmt.Fprintf(w, "%s\t%d\n", status, stats.Count(status))
			}
			fmt.Fprintf(w, "Total orders\t%d\n", stats.TotalOrders)
			fmt.Fprintf(w, "Revenue\t%s\n", stats.RevenueString())
			return w.Flush()
		},
	}
}

func newSetStatusCommand(env *environment) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Change the status of one order and record it in the audit log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID := args[0]
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("status %q: %w", args[1], err)
			}
			backends, cleanup, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			service := ordersapp.NewService(backends.Orders)
			orders, err := service.FetchAllOrders(ctx)
			if err != nil {
				return err
			}
			var from domain.Status
			found := false
			for _, order := range orders {
				if order.ID == orderID {
					from, found = order.Status, true
					break
				}
			}
			if !found {
				return fmt.Errorf("order %s: %w", orderID, ports.ErrNotFound)
			}
			if err := service.SetOrderStatus(ctx, orderID, status); err != nil {
				return err
			}
			change := domain.StatusChange{
				ID:         uuid.NewString(),
				OrderID:    orderID,
				From:       from,
				To:         status,
				Actor:      actor,
				OccurredAt: env.opts.now().UTC(),
			}
			if err := ordersworkflows.NewInlineRecorder(backends.AuditLog).Record(ctx, change); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: status changed but audit entry failed: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s: %s -> %s\n", orderID, from, status)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "ordersctl", "name recorded as the author of the change")
	return cmd
}

func newSeedCommand(env *environment) *cobra.Command {
	var count int
	var seed int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated demo dairy orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			backends, cleanup, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			orders := ordersmemory.DemoOrders(faker.NewWithSeed(rand.NewSource(seed)), count, env.opts.now().UTC())
			if err := backends.Seeder.Insert(cmd.Context(), orders...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d demo orders\n", len(orders))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 20, "number of orders to generate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	return cmd
}

func newExportCommand(env *environment) *cobra.Command {
	var status, search string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a JSON snapshot of the filtered orders and statistics to S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseStatusFilter(status)
			if err != nil {
				return fmt.Errorf("--status %q: %w", status, err)
			}
			now := env.opts.now()
			key := env.v.GetString("key")
			if key == "" {
				key = fmt.Sprintf("orders/%s.json", now.UTC().Format("20060102T150405Z"))
			}
			backends, cleanup, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			orders, err := ordersapp.NewService(backends.Orders).FetchAllOrders(cmd.Context())
			if err != nil {
				return err
			}
			client, err := env.opts.uploader(cmd.Context(), env.v.GetString("region"))
			if err != nil {
				return err
			}
			exporter, err := export.NewExporter(client, env.v.GetString("bucket"))
			if err != nil {
				return err
			}
			location, err := exporter.Export(cmd.Context(), key, export.NewSnapshot(orders, filter, search, now))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported snapshot to %s\n", location)
			return nil
		},
	}
	cmd.Flags().String("bucket", "", "destination S3 bucket")
	cmd.Flags().String("key", "", "object key (default orders/<timestamp>.json)")
	cmd.Flags().String("region", "", "AWS region (default from the AWS environment)")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&search, "search", "", "search term")
	for _, name := range []string{"bucket", "key", "region"} {
		_ = env.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

func writeOrderTable(out io.Writer, orders []*domain.Order, total int) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tCUSTOMER\tCREATED")
	for _, order := range orders {
		customer := order.Email()
		if customer == "" {
			customer = "-"
		}
		created := "-"
		if !order.CreatedAt.IsZero() {
			created = order.CreatedAt.UTC().Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", order.ID, order.Status, order.Total.StringFixed(2), customer, created)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d orders\n", len(orders), total)
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
