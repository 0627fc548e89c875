// Package journal maintains the hash linked record of governance actions and
// settlements applied to the issuance ledger. Replaying the journal against a
// fresh ledger reproduces the current allocator state.
package journal

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/signature"
)

// Kind identifies what event a record captures.
type Kind string

// The set of events the journal records.
const (
	KindAction        Kind = "action"
	KindSettle        Kind = "settle"
	KindSettlePending Kind = "settle_pending"
)

// =============================================================================

// Record represents a single event applied to the ledger. Records are hash
// linked to their parent so tampering anywhere in the journal is detectable.
type Record struct {
	PrevHash string               `json:"prev_hash"`
	Sequence uint64               `json:"sequence"`
	Block    uint64               `json:"block"`
	Kind     Kind                 `json:"kind"`
	Action   *action.SignedAction `json:"action,omitempty"`
	ToBlock  uint64               `json:"to_block,omitempty"`
}

// Hash returns the unique hash for the record.
func (r Record) Hash() string {
	if r.Sequence == 0 {
		return signature.ZeroHash
	}

	return signature.Hash(r)
}

// Validate takes a record and validates it against its parent record.
func (r Record) Validate(prevRecord Record) error {
	nextSequence := prevRecord.Sequence + 1
	if r.Sequence != nextSequence {
		return fmt.Errorf("this record is not the next sequence, got %d, exp %d", r.Sequence, nextSequence)
	}

	if r.PrevHash != prevRecord.Hash() {
		return fmt.Errorf("parent record hash doesn't match our known parent, got %s, exp %s", r.PrevHash, prevRecord.Hash())
	}

	if r.Block < prevRecord.Block {
		return fmt.Errorf("record block moves backwards, parent %d, record %d", prevRecord.Block, r.Block)
	}

	switch r.Kind {
	case KindAction:
		if r.Action == nil {
			return fmt.Errorf("record %d is an action record with no action", r.Sequence)
		}

	case KindSettle, KindSettlePending:
		if r.Action != nil {
			return fmt.Errorf("record %d is a settlement record carrying an action", r.Sequence)
		}

	default:
		return fmt.Errorf("record %d has unknown kind %q", r.Sequence, r.Kind)
	}

	return nil
}

// =============================================================================

// RecordData represents what is serialized to storage.
type RecordData struct {
	Hash   string `json:"hash"`
	Record Record `json:"record"`
}

// NewRecordData constructs the value to serialize to storage.
func NewRecordData(record Record) RecordData {
	return RecordData{
		Hash:   record.Hash(),
		Record: record,
	}
}

// =============================================================================

// Serializer interface represents the behavior required to be implemented by
// any package providing support for storing and reading journal records.
type Serializer interface {
	Write(data RecordData) error
	GetRecord(sequence uint64) (RecordData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the records.
type Iterator interface {
	Next() (RecordData, error)
	Done() bool
}

// =============================================================================

// Journal manages the hash linked list of records for the allocator. The
// first record links back to the zero hash.
type Journal struct {
	mu         sync.RWMutex
	serializer Serializer
	lastRecord Record
}

// New constructs a journal over the specified storage. The existing records
// are walked and the integrity of the hash links is validated.
func New(serializer Serializer, evHandler func(v string, args ...any)) (*Journal, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	j := Journal{
		serializer: serializer,
	}

	var lastRecord Record

	iter := serializer.ForEach()
	for data, err := iter.Next(); !iter.Done(); data, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if data.Hash != data.Record.Hash() {
			return nil, fmt.Errorf("record %d stored hash doesn't match record contents", data.Record.Sequence)
		}

		if err := data.Record.Validate(lastRecord); err != nil {
			return nil, err
		}

		lastRecord = data.Record
	}

	j.lastRecord = lastRecord

	ev("journal: load: records[%d] block[%d]", lastRecord.Sequence, lastRecord.Block)

	return &j, nil
}

// Close releases the underlying storage.
func (j *Journal) Close() error {
	return j.serializer.Close()
}

// Append assigns the next sequence and parent hash to the specified record
// and writes it to storage.
func (j *Journal) Append(record Record) (Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	record.Sequence = j.lastRecord.Sequence + 1
	record.PrevHash = j.lastRecord.Hash()

	if err := record.Validate(j.lastRecord); err != nil {
		return Record{}, err
	}

	if err := j.serializer.Write(NewRecordData(record)); err != nil {
		return Record{}, err
	}

	j.lastRecord = record

	return record, nil
}

// LastRecord returns the most recent record in the journal. A zero record
// is returned for an empty journal.
func (j *Journal) LastRecord() Record {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.lastRecord
}

// Sequence returns the sequence of the most recent record.
func (j *Journal) Sequence() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.lastRecord.Sequence
}

// GetRecord returns the contents of the specified record by sequence.
func (j *Journal) GetRecord(sequence uint64) (Record, error) {
	data, err := j.serializer.GetRecord(sequence)
	if err != nil {
		return Record{}, err
	}

	return data.Record, nil
}

// ForEach returns an iterator to walk through all the records starting
// with sequence 1.
func (j *Journal) ForEach() RecordIterator {
	return RecordIterator{iterator: j.serializer.ForEach()}
}

// Verify walks the journal from the first record and validates every hash
// link. It returns the number of records checked.
func (j *Journal) Verify() (uint64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var lastRecord Record

	iter := j.serializer.ForEach()
	for data, err := iter.Next(); !iter.Done(); data, err = iter.Next() {
		if err != nil {
			return lastRecord.Sequence, err
		}

		if data.Hash != data.Record.Hash() {
			return lastRecord.Sequence, fmt.Errorf("record %d stored hash doesn't match record contents", data.Record.Sequence)
		}

		if err := data.Record.Validate(lastRecord); err != nil {
			return lastRecord.Sequence, err
		}

		lastRecord = data.Record
	}

	if lastRecord.Sequence != j.lastRecord.Sequence {
		return lastRecord.Sequence, fmt.Errorf("journal ends at record %d, exp %d", lastRecord.Sequence, j.lastRecord.Sequence)
	}

	return lastRecord.Sequence, nil
}

// =============================================================================

// RecordIterator provides record level iteration over the raw storage.
type RecordIterator struct {
	iterator Iterator
}

// Next retrieves the next record from storage.
func (ri *RecordIterator) Next() (Record, error) {
	data, err := ri.iterator.Next()
	if err != nil {
		return Record{}, err
	}

	return data.Record, nil
}

// Done returns the end of journal value.
func (ri *RecordIterator) Done() bool {
	return ri.iterator.Done()
}
