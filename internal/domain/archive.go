package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ProviderSnapshot is one provider response observed by a reconcile pass.
type ProviderSnapshot struct {
	PaymentID  string
	UserID     string
	Status     string
	Payload    json.RawMessage
	ObservedAt time.Time
}

type SnapshotArchive interface {
	Archive(ctx context.Context, snapshot ProviderSnapshot) error
}
