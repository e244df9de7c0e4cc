package neversoft

import (
	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/types"
)

// Field keys, tried in order. Later titles renamed some fields, so a field
// may have several keys.
var (
	KeysID       = []qb.Key{0xA1DC81F9} // name
	KeysName     = []qb.Key{0xD4C98794} // title
	KeysArtist   = []qb.Key{0xFEA66978} // artist
	KeysAlbum    = []qb.Key{0xA271CDB2} // album_title
	KeysYear     = []qb.Key{0x447D8CC8} // year
	KeysMaster   = []qb.Key{0xADDA4AA8} // original_artist
	KeysGenre    = []qb.Key{0x7CAFCC07} // genre
	KeysVocalist = []qb.Key{0x6749E668} // singer
	KeysHopo     = []qb.Key{0xDEB26ABF} // hammer_on_measure_scale

	KeysDifficulty = map[types.Instrument][]qb.Key{
		types.InstrumentAmbient: {0xD163AD32},
		types.InstrumentDrums:   {0x0AA62D30},
		types.InstrumentBass:    {0xDE88B0FB},
		types.InstrumentGuitar:  {0x1A166358},
		types.InstrumentVocals:  {0x3862937D},
	}
)

// Volume fields read for the audio channel layout.
const (
	keyBandPlaybackVolume   qb.Key = 0xD8F335CF
	keyGuitarPlaybackVolume qb.Key = 0xA449CAD3
	keyOverallSongVolume    qb.Key = 0x46507438
)

// difficultyScale converts a difficulty rank into the canonical scale.
var difficultyScale = map[types.Instrument]int{
	types.InstrumentAmbient: 60,
	types.InstrumentDrums:   50,
	types.InstrumentVocals:  45,
	types.InstrumentBass:    55,
	types.InstrumentGuitar:  60,
}

type keyName struct {
	name string
	key  qb.Key
}

var genres = []keyName{
	// Guitar Hero 5
	{"Rock", 0xC8B6445D},
	{"Modern Rock", 0x28955034},
	{"Speed Metal", 0xF51BFB59},
	{"Nu Metal", 0xE0006B71},
	{"Hard Rock", 0xDD52AF3C},
	{"Surf Rock", 0x46FEED4A},
	{"Blues Rock", 0x1474F917},
	{"Alternative", 0xF100A205},
	{"Classic Rock", 0x137EBAC2},
	{"Pop Rock", 0x979DCB71},
	{"Indie Rock", 0x605C9021},
	{"Hip Hop", 0x6B291F66},
	{"Southern Rock", 0x3CD1E8EC},
	{"Grunge", 0xD1120C22},
	{"New Wave", 0xAA9491B5},
	{"Death Metal", 0x990C6A70},
	{"Pop Punk", 0x998B5B11},
	{"Industrial", 0x70E16585},
	{"Metal", 0x3F9D0B36},
	{"Punk", 0xC6A0D43D},
	{"Funk", 0xB3D2DC7E},
	{"Country", 0xAC8C3699},
	{"Progressive", 0xB8E3F63D},
	{"Glam", 0xE8D7A2A7},

	// World Tour
	{"Pop", 0xE62F48E9},
	{"Heavy Metal", 0x109A68B0},
	{"Black Metal", 0xCA3AA956},
	{"Goth", 0x33FB36DC},
}

var vocalists = []keyName{
	{"male", 0xAA721F56},
	{"female", 0xB58B7593},
}

// DefaultVocalist is used when a song names no vocalist.
const DefaultVocalist = "male"

// Songlist is a known songlist struct and the title that ships it.
type Songlist struct {
	Label string
	Key   qb.Key
	Game  types.Game
}

// SonglistKeys lists the songlist structs in lookup order.
var SonglistKeys = []Songlist{
	{"GH3", 0x5A93AE17, types.GameGuitarHero3}, // also Aerosmith and Van Halen
	{"GH5", 0x3CC2A6C9, types.GameGuitarHero5},
	{"Band Hero", 0x1254A0AA, types.GameBandHero},
	{"GH5.0", 0x0AA26E1F, types.GameGuitarHero5},
	{"GH5 DLC", 0x5C00078F, types.GameGuitarHero5},
	{"GH4", 0x92AA3758, types.GameGuitarHeroWorldTour},
	{"GH4 DLC", 0x39673CC9, types.GameGuitarHeroWorldTour},
	{"GH4.1", 0x4B98496F, types.GameGuitarHeroMetallica},
	{"GH4.2", 0x6250FD9D, types.GameGuitarHeroSmashHits},
	{"GH4.3", 0xCC386C0C, types.GameGuitarHeroVanHalen},
	{"GH5.2", 0x8D024B7C, types.GameGuitarHero5},
	{"GH5.3", 0x236ADAED, types.GameGuitarHero5},
	{"GH5.4", 0xDE932298, types.GameGuitarHero5},
	{"GH6", 0x150A123B, types.GameGuitarHeroWarriorsOfRock},
	{"GH6 DLC", 0xF3A94A45, types.GameGuitarHeroWarriorsOfRock},
	{"GHWT DLC", 0x5C04EE27, types.GameGuitarHeroWorldTour},
}

// FindSonglist returns the first known songlist struct in f.
func FindSonglist(f *qb.File) (*qb.Item, Songlist, bool) {
	for _, sl := range SonglistKeys {
		if it := f.FindItem(sl.Key, true); it != nil && it.Type.IsContainer() {
			return it, sl, true
		}
	}
	return nil, Songlist{}, false
}
