package export

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"catalogcore/internal/blob"
	"catalogcore/internal/core"
	"catalogcore/pkg/domain"
)

type staticSource struct {
	categories []domain.Category
	products   []domain.Product
	orders     []domain.Order
}

func (s staticSource) Categories() []domain.Category { return s.categories }
func (s staticSource) Products() []domain.Product    { return s.products }
func (s staticSource) Orders() []domain.Order        { return s.orders }

func testSource() staticSource {
	return staticSource{
		categories: []domain.Category{
			{Base: domain.Base{ID: "c1"}, Name: "Shoes", Slug: "shoes", IsActive: true},
		},
		products: []domain.Product{
			{Base: domain.Base{ID: "p1"}, Name: "Trail Shoe", SKU: "SHOE-1", CategoryID: "c1", Price: 79.9, IsActive: true, StockQuantity: 4},
			{Base: domain.Base{ID: "p2"}, Name: "Road Shoe", SKU: "SHOE-2", CategoryID: "c1", Price: 59.9, IsActive: false},
		},
		orders: []domain.Order{
			{Base: domain.Base{ID: "o1"}, Email: "a@b.c", Total: 25, Status: domain.OrderStatusCompleted},
		},
	}
}

func waitDone(t *testing.T, w *Worker, id string) Record {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, ok := w.Get(id)
		if !ok {
			t.Fatalf("record %s vanished", id)
		}
		if record.Status == StatusSucceeded || record.Status == StatusFailed {
			return record
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("export %s did not finish", id)
	return Record{}
}

func startWorker(t *testing.T, source Source, store blob.Store, audit AuditLogger) *Worker {
	t.Helper()
	w := NewWorker(source, store, audit)
	w.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := w.Stop(ctx); err != nil {
			t.Errorf("stop worker: %v", err)
		}
	})
	return w
}

func TestExportProducesArtifactsInBlobStore(t *testing.T) {
	store := blob.NewMemory()
	audit := &MemoryAuditLog{}
	w := startWorker(t, testSource(), store, audit)

	record, err := w.Enqueue(context.Background(), Request{Kind: KindProducts, RequestedBy: "tester"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if record.Status != StatusQueued {
		t.Fatalf("queued status = %s", record.Status)
	}
	record = waitDone(t, w, record.ID)
	if record.Status != StatusSucceeded {
		t.Fatalf("status = %s, error = %s", record.Status, record.Error)
	}
	if len(record.Artifacts) != 2 {
		t.Fatalf("artifacts = %+v, want csv+json", record.Artifacts)
	}
	for _, artifact := range record.Artifacts {
		if artifact.Rows != 2 {
			t.Fatalf("artifact rows = %d, want 2", artifact.Rows)
		}
		_, rc, err := store.Get(context.Background(), artifact.Key)
		if err != nil {
			t.Fatalf("artifact %s missing from blob store: %v", artifact.Key, err)
		}
		payload, _ := io.ReadAll(rc)
		rc.Close()
		if int64(len(payload)) != artifact.SizeBytes {
			t.Fatalf("artifact %s size = %d, recorded %d", artifact.Key, len(payload), artifact.SizeBytes)
		}
	}

	statuses := map[Status]bool{}
	for _, entry := range audit.Entries() {
		statuses[entry.Status] = true
	}
	for _, want := range []Status{StatusQueued, StatusRunning, StatusSucceeded} {
		if !statuses[want] {
			t.Fatalf("audit trail missing %s: %+v", want, audit.Entries())
		}
	}
}

func TestExportAppliesFilter(t *testing.T) {
	store := blob.NewMemory()
	w := startWorker(t, testSource(), store, nil)

	record, err := w.Enqueue(context.Background(), Request{
		Kind:          KindProducts,
		Formats:       []Format{FormatCSV},
		ProductFilter: core.ProductFilter{Status: core.StatusActive},
		RequestedBy:   "tester",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	record = waitDone(t, w, record.ID)
	if record.Status != StatusSucceeded {
		t.Fatalf("status = %s, error = %s", record.Status, record.Error)
	}
	if len(record.Artifacts) != 1 || record.Artifacts[0].Rows != 1 {
		t.Fatalf("artifacts = %+v, want one csv with one row", record.Artifacts)
	}
	_, rc, err := store.Get(context.Background(), record.Artifacts[0].Key)
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	payload, _ := io.ReadAll(rc)
	rc.Close()
	if !strings.Contains(string(payload), "Trail Shoe") || strings.Contains(string(payload), "Road Shoe") {
		t.Fatalf("csv = %q", payload)
	}
}

func TestExportJSONShape(t *testing.T) {
	store := blob.NewMemory()
	w := startWorker(t, testSource(), store, nil)

	record, err := w.Enqueue(context.Background(), Request{Kind: KindOrders, Formats: []Format{FormatJSON}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	record = waitDone(t, w, record.ID)
	_, rc, err := store.Get(context.Background(), record.Artifacts[0].Key)
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	payload, _ := io.ReadAll(rc)
	rc.Close()
	var rows []map[string]string
	if err := json.Unmarshal(payload, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 || rows[0]["email"] != "a@b.c" || rows[0]["status"] != "completed" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestEnqueueValidation(t *testing.T) {
	w := startWorker(t, testSource(), blob.NewMemory(), nil)
	if _, err := w.Enqueue(context.Background(), Request{Kind: "inventory"}); err == nil {
		t.Fatal("expected unknown kind rejection")
	}
	if _, err := w.Enqueue(context.Background(), Request{Kind: KindProducts, Formats: []Format{"xlsx"}}); err == nil {
		t.Fatal("expected unsupported format rejection")
	}
	// duplicate formats collapse to one artifact each
	record, err := w.Enqueue(context.Background(), Request{Kind: KindCategories, Formats: []Format{FormatCSV, FormatCSV}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	record = waitDone(t, w, record.ID)
	if len(record.Artifacts) != 1 {
		t.Fatalf("artifacts = %+v, want one", record.Artifacts)
	}
}

func TestGetUnknownExport(t *testing.T) {
	w := NewWorker(testSource(), blob.NewMemory(), nil)
	if _, ok := w.Get("ghost"); ok {
		t.Fatal("expected miss for unknown id")
	}
}
