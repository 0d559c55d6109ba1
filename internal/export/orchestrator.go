package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gstexport/internal/gst"
	"gstexport/internal/logger"
	"gstexport/pkg/models"
)

// Artifact is the assembled export output for one batch.
type Artifact struct {
	Kind        Kind
	ContentType string
	Extension   string
	Data        []byte
}

// Report summarizes a batch export. Errors and Warnings are keyed by invoice
// number, or by "#<position>" when the invoice has none.
type Report struct {
	BatchID   uuid.UUID
	Format    Kind
	Requested int
	Exported  int
	Failed    int
	Errors    map[string][]string
	Warnings  map[string][]string
	Duration  time.Duration
}

// Options configures an Orchestrator.
type Options struct {
	// Workers is the parallel encoding worker count. Values below 1 fall
	// back to 1.
	Workers int

	// BatchCap is the maximum invoices per batch; 0 disables the cap.
	BatchCap int

	// States overrides the GST state table. Nil selects the default table.
	States gst.StateTable
}

// Orchestrator runs batch exports: it validates, enriches and encodes
// invoices on a worker pool, then assembles the surviving fragments in input
// order. A failing invoice is excluded from the artifact and reported; it
// never aborts the batch.
type Orchestrator struct {
	enricher *Enricher
	workers  int
	batchCap int
	log      zerolog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	states := opts.States
	if states == nil {
		states = gst.DefaultStateTable()
	}

	return &Orchestrator{
		enricher: NewEnricher(states),
		workers:  workers,
		batchCap: opts.BatchCap,
		log:      logger.WithComponent("orchestrator"),
	}
}

// invoiceResult is one invoice's outcome, stored at its original position.
type invoiceResult struct {
	fragment Fragment
	errs     []error
	warnings []string
}

// ExportBatch encodes a batch of invoices into one artifact. Configuration
// problems (unknown format, invalid mapping, oversized batch) fail the whole
// call; per-invoice failures are collected in the report instead.
func (o *Orchestrator) ExportBatch(ctx context.Context, invoices []*models.CanonicalInvoice, kind Kind, encOpts EncoderOptions) (*Artifact, *Report, error) {
	start := time.Now()
	batchID := uuid.New()
	log := o.log.With().Str("batch_id", batchID.String()).Logger()

	if o.batchCap > 0 && len(invoices) > o.batchCap {
		return nil, nil, &ConfigurationError{
			Op:  "ExportBatch",
			Err: fmt.Errorf("%w: %d invoices, cap %d", ErrBatchTooLarge, len(invoices), o.batchCap),
		}
	}

	enc, err := NewEncoder(kind, encOpts)
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("format", string(kind)).
		Int("invoices", len(invoices)).
		Int("workers", o.workers).
		Msg("Starting batch export")

	results := o.processInParallel(ctx, invoices, enc, log)

	if err := ctx.Err(); err != nil {
		return nil, nil, &SystemError{Op: "ExportBatch", Err: err}
	}

	report := &Report{
		BatchID:   batchID,
		Format:    kind,
		Requested: len(invoices),
		Errors:    make(map[string][]string),
		Warnings:  make(map[string][]string),
	}

	var frags []Fragment
	for i, res := range results {
		key := reportKey(invoices[i], i)

		for _, w := range res.warnings {
			report.Warnings[key] = append(report.Warnings[key], w)
		}
		if len(res.errs) > 0 {
			report.Failed++
			for _, e := range res.errs {
				report.Errors[key] = append(report.Errors[key], e.Error())
			}
			continue
		}

		report.Exported++
		frags = append(frags, res.fragment)
	}

	data, err := enc.Assemble(frags)
	if err != nil {
		return nil, nil, err
	}

	report.Duration = time.Since(start)

	log.Info().
		Int("exported", report.Exported).
		Int("failed", report.Failed).
		Int("bytes", len(data)).
		Dur("duration", report.Duration).
		Msg("Batch export completed")

	return &Artifact{
		Kind:        kind,
		ContentType: enc.ContentType(),
		Extension:   enc.Extension(),
		Data:        data,
	}, report, nil
}

// processInParallel fans invoices out to encoding workers. Results land at
// their original index so assembly order matches input order regardless of
// worker scheduling.
func (o *Orchestrator) processInParallel(ctx context.Context, invoices []*models.CanonicalInvoice, enc Encoder, log zerolog.Logger) []invoiceResult {
	jobs := make(chan int, len(invoices))
	results := make([]invoiceResult, len(invoices))

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for idx := range jobs {
				select {
				case <-ctx.Done():
					results[idx] = invoiceResult{errs: []error{ctx.Err()}}
					continue
				default:
				}

				log.Debug().
					Int("worker", workerID).
					Int("index", idx).
					Msg("Worker encoding invoice")

				results[idx] = o.processOne(invoices[idx], enc)
			}
		}(w)
	}

	for i := range invoices {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processOne validates, enriches and encodes a single invoice.
func (o *Orchestrator) processOne(inv *models.CanonicalInvoice, enc Encoder) invoiceResult {
	if errs := Validate(inv); len(errs) > 0 {
		return invoiceResult{errs: errs}
	}

	enriched, warnings := o.enricher.Enrich(inv)

	frag, err := enc.EncodeInvoice(enriched)
	if err != nil {
		return invoiceResult{errs: []error{err}, warnings: warnings}
	}

	return invoiceResult{fragment: frag, warnings: warnings}
}

func reportKey(inv *models.CanonicalInvoice, idx int) string {
	if inv.InvoiceNumber != "" {
		return inv.InvoiceNumber
	}
	return fmt.Sprintf("#%d", idx+1)
}
