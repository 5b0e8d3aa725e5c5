package block

import (
	"testing"
	"time"
)

func TestAddParticipantRequiresCommitmentsOpen(t *testing.T) {
	b := New("b1", "test block", "https://stream.example/1", time.Now().Add(time.Hour), 100)
	p := NewParticipant("social-1", "alice", "deadbeef")

	if err := b.AddParticipant(p); err != ErrNotAcceptingEntries {
		t.Fatalf("AddParticipant on pending block: got %v, want ErrNotAcceptingEntries", err)
	}

	b.Status = StatusCommitmentsOpen
	if err := b.AddParticipant(p); err != nil {
		t.Fatalf("AddParticipant on open block: unexpected error %v", err)
	}
	if len(b.Participants) != 1 {
		t.Fatalf("Participants len = %d, want 1", len(b.Participants))
	}
}

func TestAddParticipantRejectsDuplicateSocialID(t *testing.T) {
	b := New("b1", "test block", "https://stream.example/1", time.Now().Add(time.Hour), 100)
	b.Status = StatusCommitmentsOpen

	p := NewParticipant("social-1", "alice", "deadbeef")
	if err := b.AddParticipant(p); err != nil {
		t.Fatalf("first AddParticipant: unexpected error %v", err)
	}

	dup := NewParticipant("social-1", "alice-again", "cafebabe")
	if err := b.AddParticipant(dup); err != ErrDuplicateParticipant {
		t.Fatalf("duplicate AddParticipant: got %v, want ErrDuplicateParticipant", err)
	}
}

func TestVerifiedParticipantsFiltersUnverified(t *testing.T) {
	b := New("b1", "test block", "https://stream.example/1", time.Now().Add(time.Hour), 100)
	b.Status = StatusCommitmentsOpen

	verified := NewParticipant("social-1", "alice", "deadbeef")
	verified.Verified = true
	unverified := NewParticipant("social-2", "bob", "cafebabe")

	_ = b.AddParticipant(verified)
	_ = b.AddParticipant(unverified)

	got := b.VerifiedParticipants()
	if len(got) != 1 {
		t.Fatalf("VerifiedParticipants len = %d, want 1", len(got))
	}
	if got[0].SocialID != "social-1" {
		t.Fatalf("VerifiedParticipants = %+v, want social-1", got)
	}
}

func TestSetResultsTransitionsToFinished(t *testing.T) {
	b := New("b1", "test block", "https://stream.example/1", time.Now().Add(time.Hour), 100)
	b.Status = StatusCommitmentsOpen

	p1 := NewParticipant("social-1", "alice", "deadbeef")
	p2 := NewParticipant("social-2", "bob", "cafebabe")
	_ = b.AddParticipant(p1)
	_ = b.AddParticipant(p2)

	before := b.UpdatedAt
	time.Sleep(time.Millisecond)

	b.SetResults([]ScoringResult{
		{Participant: p1, RawScore: 0.9, AdjustedScore: 0.8, Rank: 1, Payout: 60},
		{Participant: p2, RawScore: 0.5, AdjustedScore: 0.4, Rank: 2, Payout: 40},
	})

	if b.Status != StatusFinished {
		t.Fatalf("Status = %v, want Finished", b.Status)
	}
	if b.TotalPayout != 100 {
		t.Fatalf("TotalPayout = %v, want 100", b.TotalPayout)
	}
	if got := b.Participants["social-1"].Rank; got != 1 {
		t.Fatalf("social-1 rank = %d, want 1", got)
	}
	if got := b.Participants["social-2"].Payout; got != 40 {
		t.Fatalf("social-2 payout = %v, want 40", got)
	}
	if !b.UpdatedAt.After(before) {
		t.Fatalf("UpdatedAt not advanced by SetResults")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusPending:         "Pending",
		StatusCommitmentsOpen: "CommitmentsOpen",
		StatusFinished:        "Finished",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
