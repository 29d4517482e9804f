package enrichment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"agora-backend/lib/extract"
	"agora-backend/lib/scrape"
	"agora-backend/lib/scrape/pagecache"
	"agora-backend/lib/textcomplete"
	"agora-backend/lib/timezone"
	"agora-backend/services/enrichment/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/enrichment")

type Service struct {
	db              *sql.DB
	qry             *db.Queries
	fetcher         *scrape.Fetcher
	limiter         *scrape.Limiter
	cache           *pagecache.Cache
	completer       textcomplete.Client
	checkpointEvery int
}

type ServiceOptions struct {
	Database *sql.DB
	Fetcher  *scrape.Fetcher
	Limiter  *scrape.Limiter
	Cache    *pagecache.Cache
	// optional fallback for time extraction when the page pattern set
	// comes up empty
	Completer textcomplete.Client
	// checkpoint cadence in items, defaults to 50
	CheckpointEvery int
}

func NewService(opts ServiceOptions) Service {
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 50
	}
	return Service{
		db:              opts.Database,
		qry:             db.New(opts.Database),
		fetcher:         opts.Fetcher,
		limiter:         opts.Limiter,
		cache:           opts.Cache,
		completer:       opts.Completer,
		checkpointEvery: opts.CheckpointEvery,
	}
}

// Migrate brings a record store created before the all_day column existed
// up to the current schema. Safe to run on every startup.
func Migrate(ctx context.Context, database *sql.DB) error {
	_, err := database.ExecContext(
		ctx,
		"alter table events add column all_day integer not null default 0",
	)
	if err != nil && !strings.Contains(err.Error(), "duplicate column") {
		return err
	}
	return nil
}

type RunOptions struct {
	Kind extract.FieldKind
	// max items to process, 0 means no limit
	Limit  int
	DryRun bool
	// re-enrich items that already carry a value
	Force  bool
	Resume bool
}

// Run drives one batch: select the work queue, then for each item fetch
// (or reuse a cached page), extract, and persist. A single bad item never
// aborts the batch; only failing to read the queue does.
func (s Service) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("field", opts.Kind.String()),
		attribute.Int("limit", opts.Limit),
		attribute.Bool("dry_run", opts.DryRun),
		attribute.Bool("force", opts.Force),
	)

	events, err := s.queue(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read work queue")
		return Summary{}, err
	}
	span.SetAttributes(attribute.Int("queue_size", len(events)))

	progress := NewProgress(s.qry, opts.Kind.String(), s.checkpointEvery)
	start := 0
	if !opts.Resume {
		// a fresh batch invalidates any previous checkpoint
		if err := progress.Reset(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to reset checkpoint")
			return Summary{}, err
		}
	}
	if opts.Resume {
		checkpoint, ok, err := progress.Load(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load checkpoint")
			return Summary{}, err
		}
		if ok {
			// best effort: the queue may have shifted since the
			// checkpoint was written
			start = int(checkpoint.LastIndex) + 1
			if start > len(events) {
				start = len(events)
			}
			span.AddEvent("resumed from checkpoint", trace.WithAttributes(
				attribute.String("last_item", checkpoint.LastItem),
			))
		}
	}

	// cancellation is observed between items only: once an item has
	// started it runs to completion, bounded by the fetch timeout
	itemCtx := context.WithoutCancel(ctx)
	for i := start; i < len(events); i++ {
		if ctx.Err() != nil {
			span.AddEvent("cancelled between items")
			break
		}
		event := events[i]
		outcome, failed := s.enrichOne(itemCtx, event, opts)
		if err := progress.Record(itemCtx, i, event.ID, outcome, failed); err != nil {
			span.RecordError(err)
		}
	}
	if err := progress.Flush(context.WithoutCancel(ctx)); err != nil {
		span.RecordError(err)
	}

	span.SetStatus(codes.Ok, "")
	return progress.Summary(), ctx.Err()
}

func (s Service) queue(ctx context.Context, opts RunOptions) ([]db.Event, error) {
	today := timezone.Now().Format(time.DateOnly)
	maxItems := int64(opts.Limit)
	if maxItems <= 0 {
		// sqlite treats a negative limit as unbounded
		maxItems = -1
	}

	if opts.Force {
		return s.qry.GetEnrichableEvents(ctx, db.GetEnrichableEventsParams{
			Today: today, MaxItems: maxItems,
		})
	}
	switch opts.Kind {
	case extract.KindTime:
		return s.qry.GetEventsMissingTime(ctx, db.GetEventsMissingTimeParams{
			Today: today, MaxItems: maxItems,
		})
	case extract.KindPrice:
		return s.qry.GetEventsMissingPrice(ctx, db.GetEventsMissingPriceParams{
			Today: today, MaxItems: maxItems,
		})
	case extract.KindDescription:
		return s.qry.GetEventsMissingDescription(ctx, db.GetEventsMissingDescriptionParams{
			Today: today, MaxItems: maxItems,
		})
	}
	return nil, fmt.Errorf("unknown field kind %d", opts.Kind)
}

// enrichOne handles a single queue item end to end. Returns the extraction
// outcome plus whether the item failed outright (fetch or persistence).
func (s Service) enrichOne(ctx context.Context, event db.Event, opts RunOptions) (extract.Outcome, bool) {
	ctx, span := tracer.Start(ctx, "enrichOne")
	defer span.End()
	span.SetAttributes(attribute.String("event", event.ID))

	payload, err := s.pageFor(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to obtain page")
		return extract.OutcomeNotFound, true
	}

	field := extract.Extract(payload, opts.Kind)
	if opts.Kind == extract.KindTime &&
		field.Outcome == extract.OutcomeNotFound &&
		s.completer != nil {
		field = s.completeTime(ctx, event, payload, field)
	}
	span.SetAttributes(attribute.String("outcome", field.Outcome.String()))

	if opts.DryRun {
		span.SetStatus(codes.Ok, "dry run")
		return field.Outcome, false
	}

	if err := s.Upsert(ctx, event.ID, field, opts.Force); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist field")
		return field.Outcome, true
	}
	span.SetStatus(codes.Ok, "")
	return field.Outcome, false
}

// pageFor returns the raw page for an event, consulting the freshness
// cache first. Only physical fetches pass through the rate limiter.
func (s Service) pageFor(ctx context.Context, event db.Event) ([]byte, error) {
	if !event.Url.Valid || event.Url.String == "" {
		return nil, fmt.Errorf("event %s has no url", event.ID)
	}
	url := event.Url.String

	if s.cache != nil {
		entry, err := s.cache.Get(ctx, url)
		if err == nil {
			return entry.Payload, nil
		}
		if err != pagecache.ErrNotFound {
			return nil, err
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	res := s.fetcher.Fetch(ctx, event.ID, url)
	if res.Status != scrape.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", event.ID, res.Status)
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, url, res.Payload); err != nil {
			return nil, err
		}
	}
	return res.Payload, nil
}

// completeTime asks the external collaborator for a start time after the
// pattern set came up empty. Any collaborator failure leaves the original
// not-found result untouched.
func (s Service) completeTime(ctx context.Context, event db.Event, payload []byte, fallback extract.Field) extract.Field {
	ctx, span := tracer.Start(ctx, "completeTime")
	defer span.End()
	span.SetAttributes(attribute.String("event", event.ID))

	excerpt := event.Description.String
	if excerpt == "" {
		excerpt = event.FullDescription.String
	}
	date, _, _ := strings.Cut(event.StartDate, "T")
	prompt := textcomplete.TimePrompt(event.Title, date, excerpt, event.Url.String)

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collaborator failed")
		return fallback
	}
	field := textcomplete.ParseTimeReply(reply)
	span.SetAttributes(attribute.String("outcome", field.Outcome.String()))
	return field
}

// Upsert persists one extracted field inside its own transaction, so a
// crash between items never leaves a half-written row. Applying the same
// field twice leaves the row unchanged.
func (s Service) Upsert(ctx context.Context, itemID string, field extract.Field, force bool) error {
	ctx, span := tracer.Start(ctx, "Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("event", itemID),
		attribute.String("field", field.Kind.String()),
		attribute.String("outcome", field.Outcome.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = applyField(ctx, txqry, itemID, field, force, timezone.Now().Unix())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func applyField(ctx context.Context, txqry *db.Queries, itemID string, field extract.Field, force bool, now int64) error {
	switch field.Outcome {
	case extract.OutcomeNotFound:
		if !force {
			return nil
		}
		return clearField(ctx, txqry, itemID, field.Kind, now)
	case extract.OutcomeAllDay:
		return txqry.SetEventAllDay(ctx, db.SetEventAllDayParams{
			UpdatedAt: now,
			ID:        itemID,
		})
	}

	switch field.Kind {
	case extract.KindTime:
		event, err := txqry.GetEvent(ctx, itemID)
		if err != nil {
			return err
		}
		combined, err := timezone.CombineDateTime(event.StartDate, field.Value)
		if err != nil {
			return err
		}
		return txqry.UpdateEventTime(ctx, db.UpdateEventTimeParams{
			StartDate: combined,
			UpdatedAt: now,
			ID:        itemID,
		})
	case extract.KindPrice:
		// the amount bound is exclusive at zero, so anything extracted
		// here is a paid ticket
		return txqry.UpdateEventPrice(ctx, db.UpdateEventPriceParams{
			PriceType:     sql.NullString{String: "paid", Valid: true},
			PriceAmount:   sql.NullFloat64{Float64: field.Amount, Valid: true},
			PriceCurrency: sql.NullString{String: field.Currency, Valid: true},
			PriceRange:    nullIfEmpty(field.Range),
			UpdatedAt:     now,
			ID:            itemID,
		})
	case extract.KindDescription:
		return txqry.UpdateEventDescription(ctx, db.UpdateEventDescriptionParams{
			FullDescription: sql.NullString{String: field.Value, Valid: true},
			UpdatedAt:       now,
			ID:              itemID,
		})
	}
	return fmt.Errorf("unknown field kind %d", field.Kind)
}

// clearField drops a previously stored value during forced re-enrichment
// when the page no longer carries it. The start date is never cleared
// since the date portion comes from the listing importer, not from here.
func clearField(ctx context.Context, txqry *db.Queries, itemID string, kind extract.FieldKind, now int64) error {
	switch kind {
	case extract.KindTime:
		return nil
	case extract.KindPrice:
		return txqry.UpdateEventPrice(ctx, db.UpdateEventPriceParams{
			UpdatedAt: now,
			ID:        itemID,
		})
	case extract.KindDescription:
		return txqry.UpdateEventDescription(ctx, db.UpdateEventDescriptionParams{
			UpdatedAt: now,
			ID:        itemID,
		})
	}
	return fmt.Errorf("unknown field kind %d", kind)
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
