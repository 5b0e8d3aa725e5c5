package broadcast

import (
	"strings"
	"testing"
)

func TestHashtagManagerGenerateIncludesBlockTag(t *testing.T) {
	h := NewHashtagManager()
	tags := h.Generate("block_007", []string{"#extra"})
	found := false
	for _, tag := range tags {
		if tag == "#block_007" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected #block_007 in %v", tags)
	}
	if tags[len(tags)-1] != "#extra" {
		t.Fatalf("expected custom hashtag last, got %v", tags)
	}
}

func TestHashtagManagerExtract(t *testing.T) {
	h := NewHashtagManager()
	tags := h.Extract("check out #Cliptions and #block_007 now")
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
}

func TestAnnouncementFormatterStandard(t *testing.T) {
	f := NewAnnouncementFormatter()
	pool := 100.0
	text := f.CreateStandardAnnouncement(AnnouncementData{
		BlockNum:   "block_001",
		TargetTime: "2026-01-01T00:00:00Z",
		PrizePool:  &pool,
	})
	if !strings.Contains(text, "block_001") {
		t.Fatalf("expected block number in announcement: %q", text)
	}
	if !strings.Contains(text, "#block_001") {
		t.Fatalf("expected hashtag in announcement: %q", text)
	}
}

func TestAnnouncementFormatterCustomFallsBackWhenEmpty(t *testing.T) {
	f := NewAnnouncementFormatter()
	text := f.FormatAnnouncement(AnnouncementData{BlockNum: "block_002", TargetTime: "t"}, true)
	if !strings.Contains(text, "is now live") {
		t.Fatalf("expected fallback to standard announcement, got %q", text)
	}
}

func TestAnnouncementFormatterCustomMessage(t *testing.T) {
	f := NewAnnouncementFormatter()
	text := f.FormatAnnouncement(AnnouncementData{
		BlockNum: "block_003",
		Message:  "Commitments are now closed.",
	}, true)
	if !strings.HasPrefix(text, "Commitments are now closed.") {
		t.Fatalf("expected custom message preserved, got %q", text)
	}
}
