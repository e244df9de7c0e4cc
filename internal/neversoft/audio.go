package neversoft

import (
	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/types"
)

func floatField(item *qb.Item, key qb.Key) (float32, bool) {
	it := item.FindItem(key, false)
	if it == nil || it.Type != qb.TypeFloat || len(it.Floats) == 0 {
		return 0, false
	}
	return it.Floats[0], true
}

// AudioFormatOf derives the channel layout of a song's audio from its struct.
//
// Channels are, in order: kick, snare, overhead, guitar, bass, band and
// preview. Kick and snare are stereo on World Tour engine titles released
// after World Tour and mono otherwise. Bass is stereo only on Van Halen.
func AudioFormatOf(item *qb.Item, game types.Game) *types.AudioFormat {
	var band, guitar, bass, drum float32

	if v, ok := floatField(item, keyBandPlaybackVolume); ok {
		band = v
		bass = v
	}
	if v, ok := floatField(item, keyGuitarPlaybackVolume); ok {
		guitar = v
	}
	if v, ok := floatField(item, keyOverallSongVolume); ok {
		band, guitar, bass, drum = v, v, v, v
	}

	stereoDrums := IsGuitarHero4(game) && game != types.GameGuitarHeroWorldTour
	stereoBass := game == types.GameGuitarHeroVanHalen

	af := &types.AudioFormat{}

	// Kick, then snare.
	for range 2 {
		if stereoDrums {
			af.Add(drum, types.PanLeft, types.InstrumentDrums)
			af.Add(drum, types.PanRight, types.InstrumentDrums)
		} else {
			af.Add(drum, types.PanCenter, types.InstrumentDrums)
		}
	}

	// Overhead
	af.Add(drum, types.PanLeft, types.InstrumentDrums)
	af.Add(drum, types.PanRight, types.InstrumentDrums)

	af.Add(guitar, types.PanLeft, types.InstrumentGuitar)
	af.Add(guitar, types.PanRight, types.InstrumentGuitar)

	if stereoBass {
		af.Add(bass, types.PanLeft, types.InstrumentBass)
		af.Add(bass, types.PanRight, types.InstrumentBass)
	} else {
		af.Add(bass, types.PanCenter, types.InstrumentBass)
	}

	af.Add(band, types.PanLeft, types.InstrumentAmbient)
	af.Add(band, types.PanRight, types.InstrumentAmbient)

	af.Add(band, types.PanLeft, types.InstrumentPreview)
	af.Add(band, types.PanRight, types.InstrumentPreview)

	return af
}
