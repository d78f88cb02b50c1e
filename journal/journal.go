// Package journal keeps an audit trail of batch runs in a kvdb
// backend: one hash per run plus a capped recency list of run ids.
// Recording is best-effort by design; callers treat failures as
// log-worthy, never as batch failures.
package journal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeptools/sqlbatch/db/kvdb"
)

const (
	defaultKeyPrefix = "sqlbatch:journal"
	defaultRecentCap = 256
)

// Entry is one batch run to record.
type Entry struct {
	Stmts       []string
	ResultCount int
	OK          bool
	ErrText     string
	StartedAt   time.Time
	Duration    time.Duration
}

// Record is an Entry read back from the store.
type Record struct {
	ID          string
	Fingerprint string
	StmtCount   int
	ResultCount int
	OK          bool
	ErrText     string
	StartedAt   time.Time
	DurationUS  int64
}

type Recorder struct {
	kv        kvdb.Client
	keyPrefix string
	recentCap int64
	ttl       time.Duration // 0 = keep forever
}

type Option func(*Recorder)

func WithKeyPrefix(prefix string) Option {
	return func(r *Recorder) { r.keyPrefix = prefix }
}

func WithRecentCap(n int64) Option {
	return func(r *Recorder) { r.recentCap = n }
}

func WithTTL(ttl time.Duration) Option {
	return func(r *Recorder) { r.ttl = ttl }
}

func New(kv kvdb.Client, opts ...Option) *Recorder {
	r := &Recorder{
		kv:        kv,
		keyPrefix: defaultKeyPrefix,
		recentCap: defaultRecentCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) entryKey(id string) string {
	return r.keyPrefix + ":" + id
}

func (r *Recorder) recentKey() string {
	return r.keyPrefix + ":recent"
}

// Record writes one run and returns its id.
func (r *Recorder) Record(ctx context.Context, e Entry) (string, error) {
	id := uuid.NewString()
	key := r.entryKey(id)
	fields := map[string]any{
		"fingerprint":  fmt.Sprintf("%016x", Fingerprint(e.Stmts)),
		"stmt_count":   strconv.Itoa(len(e.Stmts)),
		"result_count": strconv.Itoa(e.ResultCount),
		"ok":           strconv.FormatBool(e.OK),
		"error":        e.ErrText,
		"started_at":   e.StartedAt.UTC().Format(time.RFC3339Nano),
		"duration_us":  strconv.FormatInt(e.Duration.Microseconds(), 10),
	}
	if err := r.kv.SetFields(ctx, key, fields); err != nil {
		return "", fmt.Errorf("journal write failed: %w", err)
	}
	if r.ttl > 0 {
		if _, err := r.kv.Expire(ctx, key, r.ttl); err != nil {
			return "", fmt.Errorf("journal expire failed: %w", err)
		}
	}
	if err := r.kv.Push(ctx, r.recentKey(), id); err != nil {
		return "", fmt.Errorf("journal recency push failed: %w", err)
	}
	if err := r.kv.Trim(ctx, r.recentKey(), -r.recentCap, -1); err != nil {
		return "", fmt.Errorf("journal recency trim failed: %w", err)
	}
	return id, nil
}

// Recent returns up to n run ids, newest first.
func (r *Recorder) Recent(ctx context.Context, n int64) ([]string, error) {
	ids, err := r.kv.Range(ctx, r.recentKey(), -n, -1)
	if err != nil {
		return nil, err
	}
	// stored oldest -> newest; reverse in place
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, nil
}

// Load reads one run back. found=false when the id is unknown
// (or its record already expired).
func (r *Recorder) Load(ctx context.Context, id string) (*Record, bool, error) {
	fields, err := r.kv.GetAllFields(ctx, r.entryKey(id))
	if err != nil {
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	rec := &Record{
		ID:          id,
		Fingerprint: fields["fingerprint"],
		ErrText:     fields["error"],
	}
	rec.StmtCount, _ = strconv.Atoi(fields["stmt_count"])
	rec.ResultCount, _ = strconv.Atoi(fields["result_count"])
	rec.OK, _ = strconv.ParseBool(fields["ok"])
	rec.DurationUS, _ = strconv.ParseInt(fields["duration_us"], 10, 64)
	if ts, terr := time.Parse(time.RFC3339Nano, fields["started_at"]); terr == nil {
		rec.StartedAt = ts
	}
	return rec, true, nil
}

// Fingerprint hashes a statement list order-sensitively. Identical
// batches fingerprint identically across runs.
func Fingerprint(stmts []string) uint64 {
	d := xxhash.New()
	for _, stmt := range stmts {
		_, _ = d.WriteString(stmt)
		_, _ = d.Write([]byte{0}) // keep ["a","b"] distinct from ["ab"]
	}
	return d.Sum64()
}
