package captions

import "testing"

func TestStripAdvertisementsRemovesSponsorCues(t *testing.T) {
	cues := []Cue{
		{ID: "1", StartMs: 1000, EndMs: 3000, Text: "www.OpenSubtitles.org"},
		{ID: "2", StartMs: 4000, EndMs: 6000, Text: "Hello there!"},
		{ID: "3", StartMs: 7000, EndMs: 9000, Text: "Subtitle by AwesomeSubs"},
		{ID: "4", StartMs: 9000, EndMs: 9500, Text: "Goodbye."},
	}
	kept, removed := StripAdvertisements(cues)
	if removed != 2 {
		t.Fatalf("expected 2 cues removed, got %d", removed)
	}
	if len(kept) != 2 || kept[0].Text != "Hello there!" || kept[1].Text != "Goodbye." {
		t.Fatalf("unexpected kept cues: %+v", kept)
	}
	if kept[0].ID != "1" || kept[1].ID != "2" {
		t.Fatalf("expected renumbered ids, got %q %q", kept[0].ID, kept[1].ID)
	}
	if cues[1].ID != "2" {
		t.Fatal("expected input slice to be left untouched")
	}
}

func TestIsAdvertisementKeepsDialogue(t *testing.T) {
	for _, text := range []string{"", "Where are the subtitles?", "Caption this!"} {
		if IsAdvertisement(text) {
			t.Fatalf("expected %q to be dialogue", text)
		}
	}
}

func TestIsAdvertisementMatchesCleanedCredit(t *testing.T) {
	for _, text := range []string{"Subtitles by SomeGroup", "titles by Some Group"} {
		if !IsAdvertisement(text) {
			t.Fatalf("expected %q to be an advertisement", text)
		}
	}
}
