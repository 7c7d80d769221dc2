package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/uhyunpark/silverbar/pkg/events"
)

// Journal is an append-only audit log of order events kept in Pebble.
// It is never read back into the registry.
type Journal struct {
	mu      sync.Mutex
	db      *pebble.DB
	lastSeq uint64
}

type JournalOption func(*pebble.Options)

// InMemory keeps the journal in memory. Used by tests.
func InMemory() JournalOption {
	return func(o *pebble.Options) { o.FS = vfs.NewMem() }
}

// OpenJournal opens or creates the journal at path and resumes numbering
// after the last stored event.
func OpenJournal(path string, opts ...JournalOption) (*Journal, error) {
	o := &pebble.Options{}
	for _, opt := range opts {
		opt(o)
	}
	db, err := pebble.Open(path, o)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal at %s: %w", path, err)
	}

	j := &Journal{db: db}
	if j.lastSeq, err = j.loadLastSeq(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) loadLastSeq() (uint64, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: eventPrefix,
		UpperBound: eventUpperBound(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to open journal iterator: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, nil
	}
	return seqFromKey(iter.Key())
}

// LastSeq returns the sequence number of the newest stored event, or 0.
func (j *Journal) LastSeq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastSeq
}

// Append stores ev under the next journal sequence number and returns it.
// The journal numbers events itself, so gaps from dropped dispatcher events
// do not leave holes in the key space.
func (j *Journal) Append(ev events.Event) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	seq := j.lastSeq + 1
	val, err := encodeEvent(ev)
	if err != nil {
		return 0, fmt.Errorf("failed to encode event: %w", err)
	}
	if err := j.db.Set(eventKey(seq), val, pebble.Sync); err != nil {
		return 0, fmt.Errorf("failed to append event %d: %w", seq, err)
	}
	j.lastSeq = seq
	return seq, nil
}

// Publish implements events.Sink.
func (j *Journal) Publish(_ context.Context, ev events.Event) error {
	_, err := j.Append(ev)
	return err
}

var _ events.Sink = (*Journal)(nil)

// Replay calls fn for every stored event, oldest first, and stops at the
// first error fn returns.
func (j *Journal) Replay(fn func(seq uint64, ev events.Event) error) error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: eventPrefix,
		UpperBound: eventUpperBound(),
	})
	if err != nil {
		return fmt.Errorf("failed to open journal iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := seqFromKey(iter.Key())
		if err != nil {
			return err
		}
		ev, err := decodeEvent(iter.Value())
		if err != nil {
			return fmt.Errorf("failed to decode event %d: %w", seq, err)
		}
		if err := fn(seq, ev); err != nil {
			return err
		}
	}
	return iter.Error()
}
