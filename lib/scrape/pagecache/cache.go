package pagecache

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("lib/scrape/pagecache")

var ErrNotFound = badger.ErrKeyNotFound

// Entry is one cached page artifact. Entries are replaced wholesale on
// refetch, never edited in place.
type Entry struct {
	Payload   []byte
	FetchedAt int64
}

// Cache decides reuse vs. refetch for page artifacts. An entry is fresh
// while its age is strictly below the TTL; reads and writes never touch
// the network.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
	now func() time.Time
}

type Options struct {
	Dir string
	// freshness window, defaults to 24h
	TTL time.Duration
	// injectable for freshness-boundary tests
	Now func() time.Time
}

func Open(opts Options) (*Cache, error) {
	if opts.TTL == 0 {
		opts.TTL = time.Hour * 24
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	badgerOpts := badger.DefaultOptions(opts.Dir)
	badgerOpts.Logger = nil
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db, ttl: opts.TTL, now: opts.Now}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// key normalizes URL-shaped ids so the same page fetched under trivially
// different URLs maps to one artifact.
func key(itemID string) []byte {
	parsed, err := url.Parse(itemID)
	if err != nil || parsed.Scheme == "" {
		return []byte("item:" + itemID)
	}
	normalized := purell.NormalizeURL(
		parsed,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return []byte("item:" + normalized)
}

func (c *Cache) Get(ctx context.Context, itemID string) (Entry, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("item", itemID))

	k := key(itemID)

	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	item, err := tx.Get(k)
	if err == badger.ErrKeyNotFound {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return Entry{}, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return Entry{}, err
	}

	var cached Entry
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return Entry{}, err
	}

	age := c.now().Unix() - cached.FetchedAt
	if age >= int64(c.ttl/time.Second) {
		span.AddEvent("delete expired cache key", trace.WithAttributes(attribute.KeyValue{
			Key:   "age_seconds",
			Value: attribute.Int64Value(age),
		}))

		wtx := c.db.NewTransaction(true)
		defer wtx.Commit()

		err = wtx.Delete(k)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
			return Entry{}, ErrNotFound
		}

		span.SetStatus(codes.Ok, "CACHE EXPIRED")
		return Entry{}, ErrNotFound
	}

	span.SetStatus(codes.Ok, "CACHE HIT")
	return cached, nil
}

func (c *Cache) Put(ctx context.Context, itemID string, payload []byte) error {
	ctx, span := tracer.Start(ctx, "Put")
	defer span.End()
	span.SetAttributes(
		attribute.String("item", itemID),
		attribute.Int("contentlength", len(payload)),
	)

	entry := Entry{
		Payload:   payload,
		FetchedAt: c.now().Unix(),
	}
	serialized := bytes.NewBuffer(nil)
	err := gob.NewEncoder(serialized).Encode(entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize entry")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set(key(itemID), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}

	return nil
}
