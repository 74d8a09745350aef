// Package store is the local record store: a small transactional key-value
// layer holding JSON-serialized records keyed by entity kind and id. It
// replaces the original flat slot layout with one store exposing atomic
// read-modify-write, so independently-handled requests can no longer observe
// a half-applied update.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Record kinds. Singleton kinds use a fixed id.
const (
	KindCampaign = "campaign"
	KindProfile  = "profile"
	KindSession  = "session"
	KindReceipt  = "receipt"
	KindRef      = "ref"
	KindUpload   = "upload"
)

// Well-known record ids.
const (
	LocalID             = "local"
	ReceiptLastID       = "last"
	RefDraft            = "draft"
	RefSelected         = "selected"
	UploadCampaignImage = "campaign-image"
)

// ErrNotFound is returned by Get when no record exists under kind/id.
var ErrNotFound = errors.New("store: record not found")

// Record is a stored entry.
type Record struct {
	Kind      string
	ID        string
	Data      []byte
	UpdatedAt time.Time
}

// Ref is the payload of KindRef records, pointing at a campaign record.
type Ref struct {
	CampaignID string `json:"campaign_id"`
}

// Tx exposes record access inside an Update transaction.
type Tx interface {
	Get(kind, id string) ([]byte, error)
	Put(kind, id string, data []byte) error
	Delete(kind, id string) error
}

// Store persists records. Update runs fn transactionally: either every write
// fn performed is applied, or none is. List returns records of one kind,
// newest write first.
type Store interface {
	Get(ctx context.Context, kind, id string) ([]byte, error)
	List(ctx context.Context, kind string) ([]Record, error)
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// DecodeJSON unmarshals data into v and reports success. Malformed persisted
// state is treated as absent rather than surfaced as an error, per the
// store's fail-soft contract.
func DecodeJSON(data []byte, v any) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// GetJSON loads kind/id from s and decodes it into v. A missing or malformed
// record reports false with a nil error.
func GetJSON(ctx context.Context, s Store, kind, id string, v any) (bool, error) {
	data, err := s.Get(ctx, kind, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return DecodeJSON(data, v), nil
}

// PutJSON marshals v and writes it under kind/id within tx.
func PutJSON(tx Tx, kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Put(kind, id, data)
}
