package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"qc-dashboard/internal/core/cache"
	"qc-dashboard/internal/core/database"
	"qc-dashboard/internal/core/events"
	"qc-dashboard/internal/core/proxy"
	bulkadapter "qc-dashboard/internal/features/bulkorders/adapters"
	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"
	bulkservice "qc-dashboard/internal/features/bulkorders/service"
	workorderadapter "qc-dashboard/internal/features/workorders/adapters"
	workorderservice "qc-dashboard/internal/features/workorders/service"

	"github.com/spf13/cobra"
)

var (
	fetchFrom   string
	fetchTo     string
	fetchMode   string
	fetchImport bool
)

// fetchCmd runs a bulk fetch in the foreground
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch every order page for a date range",
	Long: `Pages through OptimoRoute until the upstream has no more results, printing each
notice as it is raised and the final summary.

Example:
  qcctl fetch --from 2024-05-01 --to 2024-05-31 --mode completion --import`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "First day (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "Last day (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchMode, "mode", string(domain.FetchModeCompletion), "search or completion")
	fetchCmd.Flags().BoolVar(&fetchImport, "import", false, "Import the fetched orders as work orders")
	_ = fetchCmd.MarkFlagRequired("from")
	_ = fetchCmd.MarkFlagRequired("to")
}

func runFetch(cmd *cobra.Command, args []string) error {
	req := ports.StartFetchRequest{
		Range: domain.DateRange{From: fetchFrom, To: fetchTo},
		Mode:  domain.FetchMode(fetchMode),
	}
	if err := req.Range.Validate(); err != nil {
		return err
	}
	if !req.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", fetchMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	var importer ports.WorkOrderImporter
	if fetchImport {
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		publisher := events.NewPublisher(cfg.Kafka)
		defer publisher.Close()
		importer = bulkadapter.NewWorkOrderImporter(
			workorderservice.NewWorkOrderService(workorderadapter.NewPostgresRepository(pool), publisher),
		)
	}

	fetcher := bulkservice.NewPageFetcher(
		bulkadapter.NewOptimoRouteAdapter(cfg.OptimoRoute, proxy.FromConfig(cfg.Proxy)),
		bulkadapter.NewRedisCompletionCache(redisCache, cfg.OptimoRoute.CompletionCacheTTL()),
		cfg.OptimoRoute.CompletionBatch,
	)
	svc := bulkservice.NewBulkOrderService(
		fetcher,
		bulkadapter.NewRedisSessionRepository(redisCache, cfg.BulkOrders.SessionTTL()),
		importer,
		cfg.BulkOrders,
	)
	defer svc.Shutdown()

	session, err := svc.Fetch(ctx, req)
	if session != nil {
		printSession(cmd.OutOrStdout(), session)
	}
	if err != nil {
		return err
	}
	if session.State != domain.SessionCompleted {
		return fmt.Errorf("fetch %s", session.State)
	}

	if !fetchImport {
		return nil
	}
	res, err := svc.ImportSession(context.WithoutCancel(ctx), session.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d work order(s), skipped %d\n", res.Imported, res.Skipped)
	return nil
}

// printSession writes the notices and a one-line summary of a finished session.
func printSession(w io.Writer, s *domain.FetchSession) {
	for _, n := range s.Notices {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
	}
	fmt.Fprintf(w, "session %s %s: %d page(s), %d fetched, %d kept\n", s.ID, s.State, s.Pages, s.Fetched, s.Kept)
	if s.AfterTag != "" {
		fmt.Fprintf(w, "resume token: %s\n", s.AfterTag)
	}
}
