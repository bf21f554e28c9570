// Command catalog-export loads the catalog from the configured remote store,
// applies optional filters, and writes CSV/JSON export artifacts to the
// configured blob store. Storage and blob backends are selected through the
// CATALOGCORE_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"catalogcore/internal/blob"
	"catalogcore/internal/core"
	"catalogcore/internal/export"
	"catalogcore/pkg/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalog-export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", "products", "collection to export: categories|products|orders")
	formats := fs.String("formats", "csv,json", "comma-separated artifact formats: csv,json")
	query := fs.String("query", "", "free-text filter applied to the collection")
	status := fs.String("status", "all", "status facet: all|active|inactive (orders: all|pending|completed)")
	category := fs.String("category", "", "category id facet (products only)")
	requestedBy := fs.String("requested-by", "catalog-export", "actor recorded in the audit trail")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall deadline for load and export")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	catalog, err := core.OpenRemoteCatalog()
	if err != nil {
		fmt.Fprintf(stderr, "open remote catalog: %v\n", err)
		return 1
	}
	store, err := blob.Open(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "open blob store: %v\n", err)
		return 1
	}

	notifier := core.NewLogNotifier(stderr)
	console := core.NewConsole(catalog, core.NopMetricsRecorder{}, notifier)
	if err := loadKind(ctx, console, export.Kind(*kind)); err != nil {
		fmt.Fprintf(stderr, "load collection: %v\n", err)
		return 1
	}

	audit := &export.MemoryAuditLog{}
	worker := export.NewWorker(export.ConsoleSource{Console: console}, store, audit)
	worker.Start()
	defer worker.Stop(context.Background())

	req, err := buildRequest(export.Kind(*kind), *formats, *query, *status, *category, *requestedBy)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	record, err := worker.Enqueue(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "enqueue export: %v\n", err)
		return 1
	}

	record, err = waitForExport(ctx, worker, record.ID)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	for _, artifact := range record.Artifacts {
		fmt.Fprintf(stdout, "%s\t%s\t%d rows\t%d bytes\n", artifact.Key, artifact.ContentType, artifact.Rows, artifact.SizeBytes)
	}
	return 0
}

func loadKind(ctx context.Context, console *core.Console, kind export.Kind) error {
	switch kind {
	case export.KindCategories:
		return console.Categories.Load(ctx, "sort_order")
	case export.KindProducts:
		return console.Products.Load(ctx, "")
	case export.KindOrders:
		return console.Orders.Load(ctx, "")
	default:
		return fmt.Errorf("unknown export kind %s", kind)
	}
}

func buildRequest(kind export.Kind, formats, query, status, category, requestedBy string) (export.Request, error) {
	req := export.Request{Kind: kind, RequestedBy: requestedBy}
	for _, f := range splitComma(formats) {
		req.Formats = append(req.Formats, export.Format(f))
	}
	switch kind {
	case export.KindCategories:
		req.CategoryFilter = core.CategoryFilter{Query: query, Status: core.StatusFilter(status)}
	case export.KindProducts:
		req.ProductFilter = core.ProductFilter{Query: query, Status: core.StatusFilter(status), CategoryID: category}
	case export.KindOrders:
		req.OrderFilter = core.OrderFilter{Query: query, Status: orderStatusFacet(status)}
	default:
		return export.Request{}, fmt.Errorf("unknown export kind %s", kind)
	}
	return req, nil
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// orderStatusFacet maps the CLI status flag onto the order filter, where the
// empty status means all.
func orderStatusFacet(status string) domain.OrderStatus {
	if status == "" || status == "all" {
		return ""
	}
	return domain.OrderStatus(status)
}

func waitForExport(ctx context.Context, worker *export.Worker, id string) (export.Record, error) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return export.Record{}, ctx.Err()
		case <-ticker.C:
			record, ok := worker.Get(id)
			if !ok {
				return export.Record{}, fmt.Errorf("export %s vanished", id)
			}
			switch record.Status {
			case export.StatusSucceeded:
				return record, nil
			case export.StatusFailed:
				return export.Record{}, fmt.Errorf("export failed: %s", record.Error)
			}
		}
	}
}
