// Package tts exports rendered decks as Tabletop Simulator saved objects.
//
// A saved object references a deck sheet (a grid of card faces, as produced
// by the sheet layout) and a single back image by URL. Dropping the JSON file
// into the game's "Saved Objects" folder makes the deck available in-game.
package tts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

// DeckKey is the CustomDeck slot used for the exported sheet. Card IDs are
// DeckKey*100 + index.
const DeckKey = 41

// SavedObject is the top-level saved object file.
type SavedObject struct {
	SaveName     string        `json:"SaveName"`
	GameMode     string        `json:"GameMode"`
	Gravity      float64       `json:"Gravity"`
	PlayArea     float64       `json:"PlayArea"`
	Date         string        `json:"Date"`
	Table        string        `json:"Table"`
	Sky          string        `json:"Sky"`
	Note         string        `json:"Note"`
	Rules        string        `json:"Rules"`
	XMLUI        string        `json:"XmlUI"`
	LuaScript    string        `json:"LuaScript"`
	ObjectStates []ObjectState `json:"ObjectStates"`
}

// ObjectState is a deck or a card on the table.
type ObjectState struct {
	Name             string                `json:"Name"`
	Transform        Transform             `json:"Transform"`
	Nickname         string                `json:"Nickname"`
	Description      string                `json:"Description"`
	ColorDiffuse     Color                 `json:"ColorDiffuse"`
	Locked           bool                  `json:"Locked"`
	Grid             bool                  `json:"Grid"`
	Snap             bool                  `json:"Snap"`
	Autoraise        bool                  `json:"Autoraise"`
	Sticky           bool                  `json:"Sticky"`
	Tooltip          bool                  `json:"Tooltip"`
	SidewaysCard     bool                  `json:"SidewaysCard"`
	HideWhenFaceDown bool                  `json:"HideWhenFaceDown"`
	CardID           int                   `json:"CardID,omitempty"`
	DeckIDs          []int                 `json:"DeckIDs,omitempty"`
	CustomDeck       map[string]CustomDeck `json:"CustomDeck,omitempty"`
	ContainedObjects []ObjectState         `json:"ContainedObjects,omitempty"`
}

// Transform positions an object.
type Transform struct {
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	PosZ   float64 `json:"posZ"`
	RotX   float64 `json:"rotX"`
	RotY   float64 `json:"rotY"`
	RotZ   float64 `json:"rotZ"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	ScaleZ float64 `json:"scaleZ"`
}

// Color is an RGB tint in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// CustomDeck describes a face sheet and its back.
type CustomDeck struct {
	FaceURL      string `json:"FaceURL"`
	BackURL      string `json:"BackURL"`
	NumWidth     int    `json:"NumWidth"`
	NumHeight    int    `json:"NumHeight"`
	BackIsHidden bool   `json:"BackIsHidden"`
	UniqueBack   bool   `json:"UniqueBack"`
	Type         int    `json:"Type"`
}

// DeckParams describes the deck to export.
type DeckParams struct {
	Name     string
	Size     int      // number of cards on the sheet
	MaxWidth int      // cards per sheet row; must match the render
	FaceURL  string   // sheet image
	BackURL  string   // back image
	Cards    []string // optional card nicknames, in sheet order
}

// BuildDeck returns the saved object for a deck of p.Size cards.
func BuildDeck(p DeckParams) (*SavedObject, error) {
	if p.Size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "deck %s has no cards", p.Name)
	}
	if p.FaceURL == "" || p.BackURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "deck %s needs both a face and a back URL", p.Name)
	}
	cols, rows := deck.Grid(p.Size, p.MaxWidth)

	state := ObjectState{
		Name:             "DeckCustom",
		Transform:        defaultTransform(),
		Nickname:         p.Name,
		ColorDiffuse:     Color{R: 0.713235259, G: 0.713235259, B: 0.713235259},
		Grid:             true,
		Snap:             true,
		Autoraise:        true,
		Sticky:           true,
		Tooltip:          true,
		HideWhenFaceDown: true,
		DeckIDs:          make([]int, p.Size),
		CustomDeck: map[string]CustomDeck{
			strconv.Itoa(DeckKey): {
				FaceURL:      p.FaceURL,
				BackURL:      p.BackURL,
				NumWidth:     cols,
				NumHeight:    rows,
				BackIsHidden: true,
			},
		},
		ContainedObjects: make([]ObjectState, p.Size),
	}
	for i := range p.Size {
		id := DeckKey*100 + i
		state.DeckIDs[i] = id

		card := ObjectState{
			Name:             "Card",
			Transform:        defaultTransform(),
			ColorDiffuse:     state.ColorDiffuse,
			Grid:             true,
			Snap:             true,
			Autoraise:        true,
			Sticky:           true,
			Tooltip:          true,
			HideWhenFaceDown: true,
			CardID:           id,
		}
		if i < len(p.Cards) {
			card.Nickname = p.Cards[i]
		}
		state.ContainedObjects[i] = card
	}

	return &SavedObject{
		Gravity:      0.5,
		PlayArea:     0.5,
		ObjectStates: []ObjectState{state},
	}, nil
}

// DefaultSavedObjectsDir returns the game's saved objects folder under the
// user's home directory.
func DefaultSavedObjectsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents", "My Games", "Tabletop Simulator", "Saves", "Saved Objects")
}

// Save writes obj to dir/name.json and returns the path. dir defaults to
// [DefaultSavedObjectsDir] and must already exist.
func Save(dir, name string, obj *SavedObject) (string, error) {
	if dir == "" {
		dir = DefaultSavedObjectsDir()
	}
	if err := errors.ValidateAssetName(name); err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", errors.New(errors.ErrCodeNotFound, "saved objects folder %q does not exist", dir)
	}

	data, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode saved object")
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return path, nil
}

func defaultTransform() Transform {
	return Transform{RotY: 180, RotZ: 180, ScaleX: 1, ScaleY: 1, ScaleZ: 1}
}
