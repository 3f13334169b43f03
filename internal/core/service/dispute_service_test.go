package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/pkg/keymutex"
)

func newDisputeSvc(disputes *stubDisputeRepo, orders *stubOrderRepo, pub *stubPublisher, public bool) *DisputeService {
	return newDisputeSvcWithVotes(disputes, orders, newStubVoteRepo(), pub, public)
}

func newDisputeSvcWithVotes(disputes *stubDisputeRepo, orders *stubOrderRepo, votes *stubVoteRepo, pub *stubPublisher, public bool) *DisputeService {
	return NewDisputeService(disputes, orders, votes, pub, keymutex.New(8), public, zerolog.Nop())
}

func seededOrder(repo *stubOrderRepo, buyerID, sellerID string, status domain.OrderStatus) *domain.Order {
	repo.seq++
	now := time.Now().UTC()
	order := &domain.Order{
		ID:        "order-seeded",
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Status:    status,
		CreatedAt: now,
	}
	if status != domain.OrderCreated {
		order.CompletedAt = &now
	}
	repo.byID[order.ID] = order
	return order
}

func seededDispute(repo *stubDisputeRepo, status domain.DisputeStatus, required int, jurors ...string) *domain.Dispute {
	repo.seq++
	d := &domain.Dispute{
		ID:             "dispute-seeded",
		OrderID:        "order-seeded",
		BuyerID:        "buyer",
		SellerID:       "seller",
		Reason:         "item not as described",
		RequiredJurors: required,
		JurorIDs:       jurors,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	repo.byID[d.ID] = d
	repo.byOrder[d.OrderID] = d
	return d
}

func TestDisputeService_Create_HappyPath(t *testing.T) {
	disputes := newStubDisputeRepo()
	orders := newStubOrderRepo()
	pub := &stubPublisher{}
	seededOrder(orders, "buyer", "seller", domain.OrderCompleted)

	svc := newDisputeSvc(disputes, orders, pub, false)
	dispute, err := svc.Create(context.Background(), ports.CreateDisputeInput{
		OrderID:        "order-seeded",
		BuyerID:        "buyer",
		Reason:         "item not as described",
		RequiredJurors: 3,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispute.Status != domain.DisputeOpen {
		t.Errorf("expected open status, got %q", dispute.Status)
	}
	if dispute.SellerID != "seller" {
		t.Errorf("expected seller from order, got %q", dispute.SellerID)
	}
	if orders.byID["order-seeded"].Status != domain.OrderDisputed {
		t.Error("expected order stamped disputed")
	}
	if len(pub.events) != 1 || pub.events[0].Type != ports.DisputeEventOpened {
		t.Errorf("expected dispute.opened event, got: %v", pub.events)
	}
}

func TestDisputeService_Create_OnlyBuyerMayContest(t *testing.T) {
	disputes := newStubDisputeRepo()
	orders := newStubOrderRepo()
	seededOrder(orders, "buyer", "seller", domain.OrderCompleted)

	svc := newDisputeSvc(disputes, orders, &stubPublisher{}, false)
	_, err := svc.Create(context.Background(), ports.CreateDisputeInput{
		OrderID:        "order-seeded",
		BuyerID:        "seller",
		RequiredJurors: 1,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestDisputeService_Create_SelfDealingOrder(t *testing.T) {
	disputes := newStubDisputeRepo()
	orders := newStubOrderRepo()
	seededOrder(orders, "buyer", "buyer", domain.OrderCompleted)

	svc := newDisputeSvc(disputes, orders, &stubPublisher{}, false)
	_, err := svc.Create(context.Background(), ports.CreateDisputeInput{
		OrderID:        "order-seeded",
		BuyerID:        "buyer",
		RequiredJurors: 1,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestDisputeService_Create_OrderNotCompleted(t *testing.T) {
	disputes := newStubDisputeRepo()
	orders := newStubOrderRepo()
	seededOrder(orders, "buyer", "seller", domain.OrderCreated)

	svc := newDisputeSvc(disputes, orders, &stubPublisher{}, false)
	_, err := svc.Create(context.Background(), ports.CreateDisputeInput{
		OrderID:        "order-seeded",
		BuyerID:        "buyer",
		RequiredJurors: 1,
	})
	if !errors.Is(err, domain.ErrOrderNotCompleted) {
		t.Errorf("expected ErrOrderNotCompleted, got: %v", err)
	}
}

func TestDisputeService_Create_InvalidQuorum(t *testing.T) {
	svc := newDisputeSvc(newStubDisputeRepo(), newStubOrderRepo(), &stubPublisher{}, false)
	_, err := svc.Create(context.Background(), ports.CreateDisputeInput{
		OrderID:        "order-seeded",
		BuyerID:        "buyer",
		RequiredJurors: 0,
	})
	if !errors.Is(err, domain.ErrInvalidQuorum) {
		t.Errorf("expected ErrInvalidQuorum, got: %v", err)
	}
}

func TestDisputeService_Create_OnePerOrder(t *testing.T) {
	disputes := newStubDisputeRepo()
	orders := newStubOrderRepo()
	seededOrder(orders, "buyer", "seller", domain.OrderCompleted)
	seededDispute(disputes, domain.DisputeOpen, 1)

	svc := newDisputeSvc(disputes, orders, &stubPublisher{}, false)
	_, err := svc.Create(context.Background(), ports.CreateDisputeInput{
		OrderID:        "order-seeded",
		BuyerID:        "buyer",
		RequiredJurors: 1,
	})
	// The order is already stamped disputed, which also blocks re-filing.
	if !errors.Is(err, domain.ErrDisputeExists) && !errors.Is(err, domain.ErrOrderNotCompleted) {
		t.Errorf("expected duplicate dispute rejection, got: %v", err)
	}
}

func TestDisputeService_AssignJurors_HappyPath(t *testing.T) {
	disputes := newStubDisputeRepo()
	pub := &stubPublisher{}
	seededDispute(disputes, domain.DisputeOpen, 3)

	svc := newDisputeSvc(disputes, newStubOrderRepo(), pub, false)
	dispute, err := svc.AssignJurors(context.Background(), "dispute-seeded", []string{"j1", "j2", "j3"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispute.Status != domain.DisputeInJury {
		t.Errorf("expected in_jury, got %q", dispute.Status)
	}
	if disputes.byID["dispute-seeded"].Status != domain.DisputeInJury {
		t.Error("expected persisted status change")
	}
	if len(pub.events) != 1 || pub.events[0].Type != ports.DisputeEventJuryAssigned {
		t.Errorf("expected jury_assigned event, got: %v", pub.events)
	}
}

func TestDisputeService_AssignJurors_DeduplicatesPanel(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeOpen, 3)

	svc := newDisputeSvc(disputes, newStubOrderRepo(), &stubPublisher{}, false)
	_, err := svc.AssignJurors(context.Background(), "dispute-seeded", []string{"j1", "j1", "j2"})
	if !errors.Is(err, domain.ErrInvalidQuorum) {
		t.Errorf("expected ErrInvalidQuorum for 2 distinct of 3 required, got: %v", err)
	}
}

func TestDisputeService_AssignJurors_ParticipantExcluded(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeOpen, 1)

	svc := newDisputeSvc(disputes, newStubOrderRepo(), &stubPublisher{}, false)
	_, err := svc.AssignJurors(context.Background(), "dispute-seeded", []string{"buyer"})
	if !errors.Is(err, domain.ErrJurorConflict) {
		t.Errorf("expected ErrJurorConflict, got: %v", err)
	}
}

func TestDisputeService_AssignJurors_TerminalDispute(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeResolvedBuyer, 1)

	svc := newDisputeSvc(disputes, newStubOrderRepo(), &stubPublisher{}, false)
	_, err := svc.AssignJurors(context.Background(), "dispute-seeded", []string{"j1"})
	if !errors.Is(err, domain.ErrDisputeResolved) {
		t.Errorf("expected ErrDisputeResolved, got: %v", err)
	}
}

func TestDisputeService_Get_AccessControl(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeInJury, 1, "j1")

	svc := newDisputeSvc(disputes, newStubOrderRepo(), &stubPublisher{}, false)

	for _, caller := range []string{"buyer", "seller", "j1"} {
		if _, err := svc.Get(context.Background(), "dispute-seeded", caller, domain.RoleUser); err != nil {
			t.Errorf("expected %s to read the dispute, got: %v", caller, err)
		}
	}
	if _, err := svc.Get(context.Background(), "dispute-seeded", "stranger", domain.RoleUser); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got: %v", err)
	}
	if _, err := svc.Get(context.Background(), "dispute-seeded", "stranger", domain.RoleAdmin); err != nil {
		t.Errorf("expected admin to read the dispute, got: %v", err)
	}

	public := newDisputeSvc(disputes, newStubOrderRepo(), &stubPublisher{}, true)
	if _, err := public.Get(context.Background(), "dispute-seeded", "stranger", domain.RoleUser); err != nil {
		t.Errorf("expected public read to succeed, got: %v", err)
	}
}

func TestDisputeService_Get_LiveTallyWhileInJury(t *testing.T) {
	disputes := newStubDisputeRepo()
	votes := newStubVoteRepo()
	seededDispute(disputes, domain.DisputeInJury, 3, "j1", "j2", "j3")

	for _, v := range []*domain.JuryVote{
		{DisputeID: "dispute-seeded", JurorID: "j1", Choice: domain.VoteBuyer, Confidence: 0.5},
		{DisputeID: "dispute-seeded", JurorID: "j2", Choice: domain.VoteSeller, Confidence: 0.5},
	} {
		if _, err := votes.Upsert(context.Background(), v); err != nil {
			t.Fatalf("seeding vote: %v", err)
		}
	}

	svc := newDisputeSvcWithVotes(disputes, newStubOrderRepo(), votes, &stubPublisher{}, false)
	dispute, err := svc.Get(context.Background(), "dispute-seeded", "buyer", domain.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispute.BuyerVoteCount != 1 || dispute.SellerVoteCount != 1 {
		t.Errorf("expected live counts 1/1 while in jury, got %d/%d", dispute.BuyerVoteCount, dispute.SellerVoteCount)
	}
	if disputes.byID["dispute-seeded"].BuyerVoteCount != 0 || disputes.byID["dispute-seeded"].SellerVoteCount != 0 {
		t.Error("expected stored counters untouched before resolution")
	}
}

func TestDisputeService_List_ScopedToCaller(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeInJury, 1, "j1")

	svc := newDisputeSvc(disputes, newStubOrderRepo(), &stubPublisher{}, false)

	got, total, err := svc.List(context.Background(), "buyer", domain.RoleUser, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || total != 1 {
		t.Errorf("expected buyer to see 1 dispute, got %d (total %d)", len(got), total)
	}

	got, _, err = svc.List(context.Background(), "stranger", domain.RoleUser, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected stranger to see no disputes, got %d", len(got))
	}

	got, _, err = svc.List(context.Background(), "stranger", domain.RoleAdmin, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected admin to see all disputes, got %d", len(got))
	}
}
