package tts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

func TestBuildDeck(t *testing.T) {
	obj, err := BuildDeck(DeckParams{
		Name:     "starter",
		Size:     23,
		MaxWidth: 10,
		FaceURL:  "https://cdn.example.com/starter.png",
		BackURL:  "https://cdn.example.com/starter_back.png",
		Cards:    []string{"Goblin", "Bolt"},
	})
	if err != nil {
		t.Fatalf("BuildDeck() error: %v", err)
	}

	if len(obj.ObjectStates) != 1 {
		t.Fatalf("got %d object states, want 1", len(obj.ObjectStates))
	}
	state := obj.ObjectStates[0]
	if state.Name != "DeckCustom" || state.Nickname != "starter" {
		t.Errorf("state = %q %q", state.Name, state.Nickname)
	}
	if len(state.DeckIDs) != 23 || state.DeckIDs[0] != 4100 || state.DeckIDs[22] != 4122 {
		t.Errorf("DeckIDs = %v", state.DeckIDs)
	}

	custom, ok := state.CustomDeck["41"]
	if !ok {
		t.Fatalf("CustomDeck = %v, want key 41", state.CustomDeck)
	}
	want := CustomDeck{
		FaceURL:      "https://cdn.example.com/starter.png",
		BackURL:      "https://cdn.example.com/starter_back.png",
		NumWidth:     10,
		NumHeight:    3,
		BackIsHidden: true,
	}
	if custom != want {
		t.Errorf("CustomDeck[41] = %+v, want %+v", custom, want)
	}

	if len(state.ContainedObjects) != 23 {
		t.Fatalf("got %d cards", len(state.ContainedObjects))
	}
	first, last := state.ContainedObjects[0], state.ContainedObjects[22]
	if first.CardID != 4100 || first.Nickname != "Goblin" || last.CardID != 4122 || last.Nickname != "" {
		t.Errorf("cards = %+v ... %+v", first, last)
	}
}

func TestBuildDeckSmall(t *testing.T) {
	obj, err := BuildDeck(DeckParams{Size: 3, FaceURL: "f", BackURL: "b"})
	if err != nil {
		t.Fatalf("BuildDeck() error: %v", err)
	}
	c := obj.ObjectStates[0].CustomDeck["41"]
	if c.NumWidth != 3 || c.NumHeight != 1 {
		t.Errorf("grid = %d×%d, want 3×1", c.NumWidth, c.NumHeight)
	}
}

func TestBuildDeckErrors(t *testing.T) {
	tests := []DeckParams{
		{Size: 0, FaceURL: "f", BackURL: "b"},
		{Size: 2, BackURL: "b"},
		{Size: 2, FaceURL: "f"},
	}
	for _, p := range tests {
		if _, err := BuildDeck(p); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("BuildDeck(%+v) error = %v, want INVALID_INPUT", p, err)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	obj, _ := BuildDeck(DeckParams{Name: "starter", Size: 2, FaceURL: "f", BackURL: "b"})

	path, err := Save(dir, "starter", obj)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if path != filepath.Join(dir, "starter.json") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	states := raw["ObjectStates"].([]any)
	deck := states[0].(map[string]any)
	if ids := deck["DeckIDs"].([]any); len(ids) != 2 || ids[1].(float64) != 4101 {
		t.Errorf("DeckIDs = %v", ids)
	}
	if _, ok := deck["CustomDeck"].(map[string]any)["41"]; !ok {
		t.Error("CustomDeck key 41 missing")
	}
}

func TestSaveErrors(t *testing.T) {
	obj, _ := BuildDeck(DeckParams{Size: 1, FaceURL: "f", BackURL: "b"})

	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := Save(missing, "deck", obj); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing dir: error = %v, want NOT_FOUND", err)
	}
	if _, err := Save(t.TempDir(), "../escape", obj); err == nil {
		t.Error("Save() accepted a path in the name")
	}
}
