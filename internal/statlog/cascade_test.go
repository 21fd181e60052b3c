package statlog

import "testing"

func TestExpandSack(t *testing.T) {
	primary := StatEntry{PlayerID: 7, Type: StatSack, Value: 1, GameClock: "04:12"}

	drafts := Expand(primary)
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}

	wantTypes := []StatType{StatSack, StatTFL, StatTackleSolo}
	for i, want := range wantTypes {
		if drafts[i].Type != want {
			t.Errorf("draft %d: type = %s, want %s", i, drafts[i].Type, want)
		}
		if drafts[i].Value != 1 {
			t.Errorf("draft %d: value = %v, want 1", i, drafts[i].Value)
		}
		if drafts[i].PlayerID != 7 {
			t.Errorf("draft %d: player = %d, want 7", i, drafts[i].PlayerID)
		}
		if drafts[i].GameClock != "04:12" {
			t.Errorf("draft %d: game clock = %s, want 04:12", i, drafts[i].GameClock)
		}
	}

	if drafts[0].Note != "" {
		t.Errorf("primary draft should carry no note, got %q", drafts[0].Note)
	}
	for _, d := range drafts[1:] {
		if d.Note != "auto: from sack" {
			t.Errorf("derived %s note = %q, want %q", d.Type, d.Note, "auto: from sack")
		}
	}
}

func TestExpandHalfSack(t *testing.T) {
	drafts := Expand(StatEntry{PlayerID: 55, Type: StatSack, Value: 0.5})

	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}
	for _, d := range drafts {
		if d.Value != 0.5 {
			t.Errorf("%s value = %v, want 0.5", d.Type, d.Value)
		}
	}
}

func TestExpandSackTaken(t *testing.T) {
	drafts := Expand(StatEntry{PlayerID: 12, Type: StatSackTaken, Value: 7})

	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Type != StatSackTaken || drafts[0].Value != 7 {
		t.Errorf("primary = %s %v, want sack_taken 7", drafts[0].Type, drafts[0].Value)
	}
	if drafts[1].Type != StatRush {
		t.Errorf("derived type = %s, want rush", drafts[1].Type)
	}
	if drafts[1].Value != -7 {
		t.Errorf("derived rush value = %v, want -7 (sack yardage is a rush loss)", drafts[1].Value)
	}
}

func TestExpandNoRule(t *testing.T) {
	for _, statType := range []StatType{StatRush, StatReception, StatTackleSolo, StatInterception, StatRushTouchdown} {
		drafts := Expand(StatEntry{PlayerID: 1, Type: statType, Value: 3})
		if len(drafts) != 1 {
			t.Errorf("%s: expected 1 draft, got %d", statType, len(drafts))
		}
	}
}
