package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs shared across the service tests
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions map[string]*domain.Session
	getErr   error
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type stubIdentityRepo struct {
	byKey map[string]*domain.User
	byID  map[string]*domain.User
	seq   int
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		byKey: make(map[string]*domain.User),
		byID:  make(map[string]*domain.User),
	}
}

func (r *stubIdentityRepo) FindByPublicKey(_ context.Context, publicKey string) (*domain.User, error) {
	u, ok := r.byKey[publicKey]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubIdentityRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	r.byKey[user.PublicKey] = user
	r.byID[user.ID] = user
	return user, nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type stubVerifier struct {
	verifyErr error
}

func (v *stubVerifier) Verify(_, _, _ string) error { return v.verifyErr }

func (v *stubVerifier) Address(publicKeyHex string) (string, error) {
	return "0x" + publicKeyHex[:8], nil
}

type stubDisputeRepo struct {
	byID      map[string]*domain.Dispute
	byOrder   map[string]*domain.Dispute
	createErr error
	seq       int
}

func newStubDisputeRepo() *stubDisputeRepo {
	return &stubDisputeRepo{
		byID:    make(map[string]*domain.Dispute),
		byOrder: make(map[string]*domain.Dispute),
	}
}

func (r *stubDisputeRepo) Create(_ context.Context, d *domain.Dispute) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.byOrder[d.OrderID]; exists {
		return domain.ErrDisputeExists
	}
	r.seq++
	d.ID = fmt.Sprintf("dispute-%d", r.seq)
	r.byID[d.ID] = d
	r.byOrder[d.OrderID] = d
	return nil
}

func (r *stubDisputeRepo) FindByID(_ context.Context, id string) (*domain.Dispute, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubDisputeRepo) FindByOrderID(_ context.Context, orderID string) (*domain.Dispute, error) {
	d, ok := r.byOrder[orderID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubDisputeRepo) AssignJurors(_ context.Context, id string, jurorIDs []string) error {
	d, ok := r.byID[id]
	if !ok {
		return domain.ErrDisputeNotFound
	}
	if d.Status != domain.DisputeOpen {
		return domain.ErrInvalidTransition
	}
	d.JurorIDs = jurorIDs
	d.Status = domain.DisputeInJury
	return nil
}

func (r *stubDisputeRepo) Resolve(_ context.Context, id string, status domain.DisputeStatus, buyerVotes, sellerVotes int, resolvedAt time.Time) error {
	d, ok := r.byID[id]
	if !ok {
		return domain.ErrDisputeNotFound
	}
	if d.Status != domain.DisputeInJury {
		return domain.ErrInvalidTransition
	}
	d.Status = status
	d.BuyerVoteCount = buyerVotes
	d.SellerVoteCount = sellerVotes
	d.ResolvedAt = &resolvedAt
	return nil
}

func (r *stubDisputeRepo) List(_ context.Context, userID string, _, _ int) ([]*domain.Dispute, int64, error) {
	var out []*domain.Dispute
	for _, d := range r.byID {
		if userID == "" || d.IsParticipant(userID) || d.HasJuror(userID) {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

type stubVoteRepo struct {
	order     []string // insertion-ordered (dispute|juror) keys
	votes     map[string]*domain.JuryVote
	upsertErr error
}

func newStubVoteRepo() *stubVoteRepo {
	return &stubVoteRepo{votes: make(map[string]*domain.JuryVote)}
}

func (r *stubVoteRepo) Upsert(_ context.Context, vote *domain.JuryVote) (*domain.JuryVote, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	key := vote.DisputeID + "|" + vote.JurorID
	if existing, ok := r.votes[key]; ok {
		existing.Choice = vote.Choice
		existing.Confidence = vote.Confidence
		existing.UpdatedAt = vote.UpdatedAt
		return existing, nil
	}
	vote.ID = key
	r.votes[key] = vote
	r.order = append(r.order, key)
	return vote, nil
}

func (r *stubVoteRepo) ListByDispute(_ context.Context, disputeID string) ([]*domain.JuryVote, error) {
	var out []*domain.JuryVote
	for _, key := range r.order {
		if v := r.votes[key]; v.DisputeID == disputeID {
			out = append(out, v)
		}
	}
	return out, nil
}

type stubEvidenceRepo struct {
	entries   []*domain.EvidenceEntry
	appendErr error
	seq       int
}

func (r *stubEvidenceRepo) Append(_ context.Context, entry *domain.EvidenceEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.seq++
	entry.ID = fmt.Sprintf("evidence-%d", r.seq)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubEvidenceRepo) ListByDispute(_ context.Context, disputeID string) ([]*domain.EvidenceEntry, error) {
	var out []*domain.EvidenceEntry
	for _, e := range r.entries {
		if e.DisputeID == disputeID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubProductRepo struct {
	byID map[string]*domain.Product
	seq  int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.seq++
	p.ID = fmt.Sprintf("product-%d", r.seq)
	r.byID[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _, _ int) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type stubCartRepo struct {
	byUser map[string]*domain.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{byUser: make(map[string]*domain.Cart)}
}

func (r *stubCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := r.byUser[userID]
	if !ok {
		return &domain.Cart{UserID: userID}, nil
	}
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	return &cp, nil
}

func (r *stubCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	r.byUser[cart.UserID] = &cp
	return nil
}

func (r *stubCartRepo) Clear(_ context.Context, userID string) error {
	delete(r.byUser, userID)
	return nil
}

type stubOrderRepo struct {
	byID map[string]*domain.Order
	seq  int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.seq++
	o.ID = fmt.Sprintf("order-%d", r.seq)
	r.byID[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) Complete(_ context.Context, id string, completedAt time.Time) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.OrderCreated {
		return domain.ErrInvalidTransition
	}
	o.Status = domain.OrderCompleted
	o.CompletedAt = &completedAt
	return nil
}

func (r *stubOrderRepo) MarkDisputed(_ context.Context, id string) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.OrderCompleted {
		return domain.ErrInvalidTransition
	}
	o.Status = domain.OrderDisputed
	return nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		if o.IsParticipant(userID) {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

type stubPublisher struct {
	events     []ports.DisputeEvent
	publishErr error
}

func (p *stubPublisher) PublishDisputeEvent(_ context.Context, event ports.DisputeEvent) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, event)
	return nil
}
