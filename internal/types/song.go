// Package types provides the core data model shared by every codec and engine.
//
// This package defines SongData, the canonical cross-title song record,
// together with the Instrument and Game enumerations, the opaque DataBag used
// to carry format-specific bytes, and AudioFormat channel mappings.
package types

import (
	"fmt"
	"strings"
)

// DefaultTicksPerBeat is the chart resolution used to derive hammer-on thresholds.
const DefaultTicksPerBeat = 480

// Instrument identifies a playable part or audio stem.
type Instrument int

const (
	// InstrumentAmbient is the backing track (everything that is not a playable part).
	InstrumentAmbient Instrument = iota
	// InstrumentGuitar is lead guitar.
	InstrumentGuitar
	// InstrumentBass is bass guitar.
	InstrumentBass
	// InstrumentDrums is drums.
	InstrumentDrums
	// InstrumentVocals is vocals.
	InstrumentVocals
	// InstrumentPreview is the menu preview clip.
	InstrumentPreview
)

var instrumentNames = []string{"ambient", "guitar", "bass", "drums", "vocals", "preview"}

func (i Instrument) String() string {
	if i >= 0 && int(i) < len(instrumentNames) {
		return instrumentNames[i]
	}
	return fmt.Sprintf("instrument(%d)", int(i))
}

// MarshalText lets instruments key JSON objects by name.
func (i Instrument) MarshalText() ([]byte, error) {
	if i < 0 || int(i) >= len(instrumentNames) {
		return nil, fmt.Errorf("unknown instrument %d", int(i))
	}
	return []byte(instrumentNames[i]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Instrument) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for idx, n := range instrumentNames {
		if n == name {
			*i = Instrument(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown instrument %q", text)
}

// Game identifies a title within an engine family.
type Game int

const (
	GameUnknown Game = iota
	GameGuitarHero3
	GameGuitarHeroAerosmith
	GameGuitarHeroWorldTour
	GameGuitarHeroMetallica
	GameGuitarHeroSmashHits
	GameGuitarHeroVanHalen
	GameGuitarHero5
	GameBandHero
	GameGuitarHeroWarriorsOfRock
	GameRockBand
	GameRockBand2
)

var gameNames = []string{
	"Unknown",
	"Guitar Hero III",
	"Guitar Hero: Aerosmith",
	"Guitar Hero World Tour",
	"Guitar Hero: Metallica",
	"Guitar Hero Smash Hits",
	"Guitar Hero: Van Halen",
	"Guitar Hero 5",
	"Band Hero",
	"Guitar Hero: Warriors of Rock",
	"Rock Band",
	"Rock Band 2",
}

func (g Game) String() string {
	if g >= 0 && int(g) < len(gameNames) {
		return gameNames[g]
	}
	return fmt.Sprintf("game(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g Game) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unrecognized names decode to GameUnknown.
func (g *Game) UnmarshalText(text []byte) error {
	for idx, n := range gameNames {
		if strings.EqualFold(n, string(text)) {
			*g = Game(idx)
			return nil
		}
	}
	*g = GameUnknown
	return nil
}

// SongData is the canonical cross-title song record.
//
// Metadata mappers fill the well-known fields and stash anything they do not
// model in Data so a later encode step can reproduce the original bytes.
type SongData struct {
	Difficulty    map[Instrument]int `json:"difficulty,omitempty"`
	Data          DataBag            `json:"data"`
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Artist        string             `json:"artist"`
	Album         string             `json:"album,omitempty"`
	Genre         string             `json:"genre,omitempty"`
	Vocalist      string             `json:"vocalist,omitempty"`
	Year          int                `json:"year,omitempty"`
	HopoThreshold int                `json:"hopoThreshold,omitempty"`
	Version       int                `json:"version"`
	Game          Game               `json:"game"`
	Master        bool               `json:"master"`
}

// NewSongData returns an empty record for the given game.
func NewSongData(game Game) *SongData {
	return &SongData{
		Game:       game,
		Version:    1,
		Difficulty: make(map[Instrument]int),
	}
}

// String returns "Artist - Name [ID]".
func (s *SongData) String() string {
	return fmt.Sprintf("%s - %s [%s]", s.Artist, s.Name, s.ID)
}
