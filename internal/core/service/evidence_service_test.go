package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/core/domain"
)

func newEvidenceSvc(disputes *stubDisputeRepo, evidence *stubEvidenceRepo, public bool) *EvidenceService {
	return NewEvidenceService(disputes, evidence, public, zerolog.Nop())
}

func TestEvidenceService_Post_HappyPath(t *testing.T) {
	disputes := newStubDisputeRepo()
	evidence := &stubEvidenceRepo{}
	seededDispute(disputes, domain.DisputeInJury, 1, "j1")

	svc := newEvidenceSvc(disputes, evidence, false)

	for _, sender := range []string{"buyer", "seller", "j1"} {
		entry, err := svc.Post(context.Background(), "dispute-seeded", sender, "the package arrived damaged")
		if err != nil {
			t.Fatalf("expected %s to post, got: %v", sender, err)
		}
		if entry.ID == "" || entry.CreatedAt.IsZero() {
			t.Errorf("expected stamped entry, got: %+v", entry)
		}
	}
	if len(evidence.entries) != 3 {
		t.Errorf("expected 3 entries appended, got %d", len(evidence.entries))
	}
}

func TestEvidenceService_Post_EmptyText(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeOpen, 1)

	svc := newEvidenceSvc(disputes, &stubEvidenceRepo{}, false)
	if _, err := svc.Post(context.Background(), "dispute-seeded", "buyer", "   "); !errors.Is(err, domain.ErrEmptyEvidence) {
		t.Errorf("expected ErrEmptyEvidence, got: %v", err)
	}
}

func TestEvidenceService_Post_StrangerForbidden(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeOpen, 1)

	svc := newEvidenceSvc(disputes, &stubEvidenceRepo{}, false)
	if _, err := svc.Post(context.Background(), "dispute-seeded", "stranger", "text"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestEvidenceService_Post_TerminalDispute(t *testing.T) {
	disputes := newStubDisputeRepo()
	seededDispute(disputes, domain.DisputeResolvedSeller, 1)

	svc := newEvidenceSvc(disputes, &stubEvidenceRepo{}, false)
	if _, err := svc.Post(context.Background(), "dispute-seeded", "buyer", "too late"); !errors.Is(err, domain.ErrDisputeResolved) {
		t.Errorf("expected ErrDisputeResolved, got: %v", err)
	}
}

func TestEvidenceService_List_AccessPolicy(t *testing.T) {
	disputes := newStubDisputeRepo()
	evidence := &stubEvidenceRepo{}
	seededDispute(disputes, domain.DisputeInJury, 1, "j1")

	restricted := newEvidenceSvc(disputes, evidence, false)
	if _, err := restricted.List(context.Background(), "dispute-seeded", "stranger", domain.RoleUser); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden under the default policy, got: %v", err)
	}
	if _, err := restricted.List(context.Background(), "dispute-seeded", "j1", domain.RoleUser); err != nil {
		t.Errorf("expected juror read to succeed, got: %v", err)
	}
	if _, err := restricted.List(context.Background(), "dispute-seeded", "stranger", domain.RoleAdmin); err != nil {
		t.Errorf("expected admin read to succeed, got: %v", err)
	}

	public := newEvidenceSvc(disputes, evidence, true)
	if _, err := public.List(context.Background(), "dispute-seeded", "stranger", domain.RoleUser); err != nil {
		t.Errorf("expected public read to succeed, got: %v", err)
	}
}

func TestEvidenceService_List_ReturnsThreadInOrder(t *testing.T) {
	disputes := newStubDisputeRepo()
	evidence := &stubEvidenceRepo{}
	seededDispute(disputes, domain.DisputeInJury, 1, "j1")

	svc := newEvidenceSvc(disputes, evidence, false)
	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Post(context.Background(), "dispute-seeded", "buyer", text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := svc.List(context.Background(), "dispute-seeded", "buyer", domain.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 || entries[0].Text != "first" || entries[2].Text != "third" {
		t.Errorf("expected thread in append order, got: %+v", entries)
	}
}
