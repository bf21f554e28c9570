// Package export renders filtered catalog snapshots to downloadable
// artifacts. Requests are processed asynchronously by a single worker
// goroutine; job status is queryable while artifacts land in blob storage.
package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalogcore/internal/blob"
	"catalogcore/internal/core"
	"catalogcore/pkg/domain"
)

// Status describes the lifecycle stage of an export request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Kind selects which collection a request exports.
type Kind string

const (
	KindCategories Kind = "categories"
	KindProducts   Kind = "products"
	KindOrders     Kind = "orders"
)

// Format selects an artifact encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Artifact captures one stored export artifact.
type Artifact struct {
	Key         string    `json:"key"`
	Format      Format    `json:"format"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Rows        int       `json:"rows"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Request is an enqueue request for the worker. The zero filter of the
// requested kind exports the whole collection.
type Request struct {
	Kind           Kind
	Formats        []Format
	CategoryFilter core.CategoryFilter
	ProductFilter  core.ProductFilter
	OrderFilter    core.OrderFilter
	RequestedBy    string
}

// Record tracks an export request and its resulting artifacts.
type Record struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Formats     []Format   `json:"formats"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Artifacts   []Artifact `json:"artifacts,omitempty"`
	RequestedBy string     `json:"requested_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Source supplies the collection snapshots a request renders. Implementations
// return copies; the worker never mutates what it reads.
type Source interface {
	Categories() []domain.Category
	Products() []domain.Product
	Orders() []domain.Order
}

// ConsoleSource adapts a core.Console into a Source.
type ConsoleSource struct{ Console *core.Console }

func (s ConsoleSource) Categories() []domain.Category { return s.Console.Categories.Collection().Items() }
func (s ConsoleSource) Products() []domain.Product    { return s.Console.Products.Collection().Items() }
func (s ConsoleSource) Orders() []domain.Order        { return s.Console.Orders.Collection().Items() }

// AuditLogger records export audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures the audit trail metadata for one export transition.
type AuditEntry struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Kind       Kind      `json:"kind"`
	Status     Status    `json:"status"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type task struct {
	id  string
	req Request
}

// Worker executes catalog exports asynchronously.
type Worker struct {
	source Source
	store  blob.Store
	audit  AuditLogger

	queue chan task
	mu    sync.RWMutex
	jobs  map[string]*Record

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker constructs an export worker writing artifacts to store.
func NewWorker(source Source, store blob.Store, audit AuditLogger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		source: source,
		store:  store,
		audit:  audit,
		queue:  make(chan task, 32),
		jobs:   make(map[string]*Record),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case t := <-w.queue:
			w.process(t)
		}
	}
}

// Enqueue schedules an export job and returns the queued record.
func (w *Worker) Enqueue(ctx context.Context, req Request) (Record, error) {
	switch req.Kind {
	case KindCategories, KindProducts, KindOrders:
	default:
		return Record{}, fmt.Errorf("unknown export kind %s", req.Kind)
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = []Format{FormatCSV, FormatJSON}
	}
	uniq := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	for _, f := range formats {
		if f != FormatCSV && f != FormatJSON {
			return Record{}, fmt.Errorf("unsupported export format %s", f)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		uniq = append(uniq, f)
		seen[f] = struct{}{}
	}
	req.Formats = uniq

	now := time.Now().UTC()
	record := Record{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		Formats:     uniq,
		Status:      StatusQueued,
		RequestedBy: req.RequestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	w.mu.Lock()
	w.jobs[record.ID] = &record
	snapshot := record.copy()
	w.mu.Unlock()

	w.auditRecord(ctx, record.RequestedBy, record.Kind, StatusQueued, "")

	select {
	case w.queue <- task{id: record.ID, req: req}:
	default:
		w.fail(record.ID, "export queue full")
		return Record{}, fmt.Errorf("export queue full")
	}
	return snapshot, nil
}

// Get returns a snapshot of the export record.
func (w *Worker) Get(id string) (Record, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return Record{}, false
	}
	return record.copy(), true
}

func (w *Worker) process(t task) {
	w.setStatus(t.id, StatusRunning, "")

	rows, header, err := w.render(t.req)
	if err != nil {
		w.fail(t.id, err.Error())
		return
	}

	artifacts := make([]Artifact, 0, len(t.req.Formats))
	for _, format := range t.req.Formats {
		payload, contentType, err := encode(format, header, rows)
		if err != nil {
			w.fail(t.id, err.Error())
			return
		}
		key := fmt.Sprintf("exports/%s/%s.%s", t.id, t.req.Kind, format)
		artifact := Artifact{
			Key:         key,
			Format:      format,
			ContentType: contentType,
			SizeBytes:   int64(len(payload)),
			Rows:        len(rows),
			CreatedAt:   time.Now().UTC(),
		}
		if w.store != nil {
			obj, err := w.store.Put(w.ctx, key, bytesReader(payload), blob.PutOptions{
				ContentType: contentType,
				Metadata:    map[string]string{"kind": string(t.req.Kind), "job": t.id},
			})
			if err != nil {
				w.fail(t.id, fmt.Sprintf("store artifact: %v", err))
				return
			}
			artifact.URL = obj.URL
		}
		artifacts = append(artifacts, artifact)
	}
	w.complete(t.id, artifacts)
}

// render flattens the requested collection through its filter.
func (w *Worker) render(req Request) ([][]string, []string, error) {
	switch req.Kind {
	case KindCategories:
		items := core.FilterCategories(w.source.Categories(), req.CategoryFilter)
		return categoryRows(items), categoryHeader, nil
	case KindProducts:
		items := core.FilterProducts(w.source.Products(), req.ProductFilter)
		return productRows(items), productHeader, nil
	case KindOrders:
		items := core.FilterOrders(w.source.Orders(), req.OrderFilter)
		return orderRows(items), orderHeader, nil
	default:
		return nil, nil, fmt.Errorf("unknown export kind %s", req.Kind)
	}
}

func (w *Worker) setStatus(id string, status Status, note string) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	var kind Kind
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.Error = note
		record.UpdatedAt = now
		actor, kind = record.RequestedBy, record.Kind
	}
	w.mu.Unlock()
	w.auditRecord(w.ctx, actor, kind, status, note)
}

func (w *Worker) complete(id string, artifacts []Artifact) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	var kind Kind
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusSucceeded
		record.Error = ""
		record.Artifacts = artifacts
		record.UpdatedAt = now
		record.CompletedAt = &now
		actor, kind = record.RequestedBy, record.Kind
	}
	w.mu.Unlock()
	w.auditRecord(w.ctx, actor, kind, StatusSucceeded, "")
}

func (w *Worker) fail(id, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	var kind Kind
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
		actor, kind = record.RequestedBy, record.Kind
	}
	w.mu.Unlock()
	w.auditRecord(w.ctx, actor, kind, StatusFailed, reason)
}

func (w *Worker) auditRecord(ctx context.Context, actor string, kind Kind, status Status, note string) {
	if w.audit == nil {
		return
	}
	w.audit.Record(ctx, AuditEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Kind:       kind,
		Status:     status,
		Note:       note,
		OccurredAt: time.Now().UTC(),
	})
}

func (r Record) copy() Record {
	dup := r
	dup.Formats = append([]Format(nil), r.Formats...)
	if len(r.Artifacts) > 0 {
		dup.Artifacts = append([]Artifact(nil), r.Artifacts...)
	}
	return dup
}

// MemoryAuditLog captures audit entries in memory for assertions.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// Record stores an audit entry.
func (l *MemoryAuditLog) Record(ctx context.Context, entry AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a defensive copy of recorded audit entries.
func (l *MemoryAuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
