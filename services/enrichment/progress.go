package enrichment

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"agora-backend/lib/extract"
	"agora-backend/lib/timezone"
	"agora-backend/services/enrichment/db"
)

// Summary is the outcome tally for one batch run.
type Summary struct {
	Processed int
	Found     int
	NotFound  int
	Failed    []string
}

// Progress tracks per-item outcomes and persists a resumable checkpoint
// every few items so an interrupted batch can pick up where it stopped.
type Progress struct {
	qry   *db.Queries
	kind  string
	every int

	summary   Summary
	lastItem  string
	lastIndex int64
}

func NewProgress(qry *db.Queries, kind string, every int) *Progress {
	if every <= 0 {
		every = 50
	}
	return &Progress{qry: qry, kind: kind, every: every}
}

// Load returns the last persisted checkpoint for this kind, if any.
func (p *Progress) Load(ctx context.Context) (db.EnrichmentProgress, bool, error) {
	checkpoint, err := p.qry.GetProgress(ctx, p.kind)
	if errors.Is(err, sql.ErrNoRows) {
		return db.EnrichmentProgress{}, false, nil
	}
	if err != nil {
		return db.EnrichmentProgress{}, false, err
	}
	return checkpoint, true, nil
}

// Record tallies one item and writes a checkpoint when the cadence is hit.
// Checkpoint write failures are reported but do not undo the tally.
func (p *Progress) Record(ctx context.Context, index int, itemID string, outcome extract.Outcome, failed bool) error {
	p.summary.Processed++
	switch {
	case failed:
		p.summary.Failed = append(p.summary.Failed, itemID)
	case outcome == extract.OutcomeNotFound:
		p.summary.NotFound++
	default:
		p.summary.Found++
	}
	p.lastItem = itemID
	p.lastIndex = int64(index)

	if p.summary.Processed%p.every == 0 {
		return p.flush(ctx)
	}
	return nil
}

// Flush writes a final checkpoint, covering batches whose size is not a
// multiple of the cadence.
func (p *Progress) Flush(ctx context.Context) error {
	if p.summary.Processed == 0 || p.summary.Processed%p.every == 0 {
		return nil
	}
	return p.flush(ctx)
}

func (p *Progress) flush(ctx context.Context) error {
	return p.qry.UpsertProgress(ctx, db.UpsertProgressParams{
		Kind:      p.kind,
		LastItem:  p.lastItem,
		LastIndex: p.lastIndex,
		Processed: int64(p.summary.Processed),
		Success:   int64(p.summary.Found),
		NotFound:  int64(p.summary.NotFound),
		FailedIds: strings.Join(p.summary.Failed, ","),
		UpdatedAt: timezone.Now().Unix(),
	})
}

// Reset drops the checkpoint at the start of a fresh batch.
func (p *Progress) Reset(ctx context.Context) error {
	return p.qry.ClearProgress(ctx, p.kind)
}

func (p *Progress) Summary() Summary {
	return p.summary
}
