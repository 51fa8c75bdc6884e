package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore backs both the pending repository and the ledger so that
// finalize can be checked for atomicity across the two.
type memoryStore struct {
	mu          sync.Mutex
	pending     map[string]*domain.PendingPayment
	ledger      map[string]*domain.FinalizedPayment
	updates     map[string]int
	finalizeErr error
	deleteErr   map[string]error
	updateErr   map[string]error
	listErr     error
}

func newMemoryStore(pending ...*domain.PendingPayment) *memoryStore {
	s := &memoryStore{
		pending:   map[string]*domain.PendingPayment{},
		ledger:    map[string]*domain.FinalizedPayment{},
		updates:   map[string]int{},
		deleteErr: map[string]error{},
		updateErr: map[string]error{},
	}
	for _, p := range pending {
		cp := *p
		s.pending[p.ID] = &cp
	}
	return s
}

func (s *memoryStore) Create(_ context.Context, p *domain.PendingPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.pending[p.ID] = &cp
	return nil
}

func (s *memoryStore) ListAll(context.Context) ([]*domain.PendingPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*domain.PendingPayment, 0, len(s.pending))
	for _, p := range s.pending {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) GetForUser(_ context.Context, userID, paymentID string) (*domain.PendingPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pending {
		if p.UserID == userID && p.PaymentID == paymentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memoryStore) ApplyUpdate(_ context.Context, id string, u domain.PendingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[id]; err != nil {
		return err
	}
	p, ok := s.pending[id]
	if !ok {
		return nil
	}
	p.PaymentStatus = u.PaymentStatus
	if u.PayAddress != "" {
		p.PayAddress = u.PayAddress
	}
	if u.PayAmount.Valid {
		p.PayAmount = u.PayAmount
	}
	if u.PayCurrency != "" {
		p.PayCurrency = u.PayCurrency
	}
	if u.AmountReceived.Valid {
		p.AmountReceived = u.AmountReceived
	}
	if u.PayinExtraID != "" {
		p.PayinExtraID = u.PayinExtraID
	}
	if u.PurchaseID != "" {
		p.PurchaseID = u.PurchaseID
	}
	if u.ProviderUpdatedAt != "" {
		p.ProviderUpdatedAt = u.ProviderUpdatedAt
	}
	p.Raw = u.Raw
	s.updates[id]++
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	delete(s.pending, id)
	return nil
}

func (s *memoryStore) Finalize(_ context.Context, payment *domain.FinalizedPayment, pendingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalizeErr != nil {
		return s.finalizeErr
	}
	if _, exists := s.ledger[payment.PaymentID]; !exists {
		for _, existing := range s.ledger {
			if existing.OrderID == payment.OrderID {
				return errors.New("duplicate order_id")
			}
		}
		cp := *payment
		s.ledger[payment.PaymentID] = &cp
	}
	delete(s.pending, pendingID)
	return nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID string, statuses ...domain.FinalizedStatus) ([]*domain.FinalizedPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.FinalizedPayment
	for _, p := range s.ledger {
		if p.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if p.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	responses  map[string]string
	errs       map[string]error
	calls      map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		configured: true,
		responses:  map[string]string{},
		errs:       map[string]error{},
		calls:      map[string]int{},
	}
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) CreatePayment(context.Context, domain.CreatePaymentRequest) (*domain.ProviderPayment, error) {
	return nil, errors.New("not used")
}

func (f *fakeProvider) FetchStatus(_ context.Context, paymentID string) (*domain.ProviderPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[paymentID]++
	if err := f.errs[paymentID]; err != nil {
		return nil, err
	}
	body, ok := f.responses[paymentID]
	if !ok {
		return nil, domain.ErrProviderUnavailable
	}
	var p domain.ProviderPayment
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *fakeProvider) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.PaymentEvent
	err    error
}

func (r *recordingPublisher) PublishPaymentEvent(_ context.Context, e domain.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

type recordingArchive struct {
	mu        sync.Mutex
	snapshots []domain.ProviderSnapshot
}

func (r *recordingArchive) Archive(_ context.Context, s domain.ProviderSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
	return nil
}
