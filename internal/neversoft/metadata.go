// Package neversoft maps Neversoft song item trees to canonical song data
// and provides the "Neversoft Song Data" format plugin that carries the
// original item bytes alongside a song.
package neversoft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/types"
)

// Data bag keys written by SongData.
const (
	DataSongItem    = "NeversoftSongItem"
	DataSongType    = "NeversoftSongType"
	DataSongItemKey = "NeversoftSongItemKey"
)

// SongString resolves the first present field among keys to text. String
// items yield their value, key references resolve through strs. Anything
// else, including a missing field, yields "".
func SongString(item *qb.Item, keys []qb.Key, strs *qb.StringList) string {
	return item.Find(keys...).Resolve(strs)
}

// SongData maps one song struct to a canonical record.
//
// strs may be nil. When it is not, the well-known genre and vocalist names
// are merged into it on first use.
func SongData(item *qb.Item, strs *qb.StringList, game types.Game) (*types.SongData, error) {
	if strs == nil {
		strs = qb.NewStringList()
	}

	song := types.NewSongData(game)

	song.ID = SongString(item, KeysID, strs)
	song.Name = SongString(item, KeysName, strs)
	song.Artist = SongString(item, KeysArtist, strs)
	song.Album = SongString(item, KeysAlbum, strs)

	if !strs.Has(genres[0].key) {
		for _, g := range genres {
			if !strs.Has(g.key) {
				strs.Add(g.key, g.name)
			}
		}
	}
	song.Genre = SongString(item, KeysGenre, strs)

	if year, ok := item.Find(KeysYear...).Integer(); ok {
		song.Year = int(year)
	} else {
		text := strings.TrimSpace(strings.TrimLeft(SongString(item, KeysYear, strs), ", "))
		if y, err := strconv.Atoi(text); err == nil {
			song.Year = y
		}
	}

	if master, ok := item.Find(KeysMaster...).Integer(); ok {
		song.Master = master == 1
	}

	for inst, keys := range KeysDifficulty {
		if rank, ok := item.Find(keys...).Integer(); ok {
			song.Difficulty[inst] = int(rank) * difficultyScale[inst]
		}
	}

	for _, v := range vocalists {
		if !strs.Has(v.key) {
			strs.Add(v.key, v.name)
		}
	}
	song.Vocalist = SongString(item, KeysVocalist, strs)
	if song.Vocalist == "" {
		song.Vocalist = DefaultVocalist
	}

	if hopo := item.Find(KeysHopo...); hopo != nil && hopo.Type == qb.TypeFloat && len(hopo.Floats) > 0 {
		if scale := hopo.Floats[0]; scale > 0 {
			song.HopoThreshold = int(float32(types.DefaultTicksPerBeat) / scale)
		}
	}

	if err := storeSongItem(song, item); err != nil {
		return nil, err
	}
	return song, nil
}

// storeSongItem keeps the struct's encoded bytes in the data bag so the
// song can be written back without remodelling every field.
func storeSongItem(song *types.SongData, item *qb.Item) error {
	format := item.Format
	if format == nil {
		format = qb.NewPakFormat(qb.PlatformPC)
	}

	data, err := qb.NewFile(format).Add(item.Clone()).Bytes()
	if err != nil {
		return fmt.Errorf("encode song item %s: %w", item.Key, err)
	}

	song.Data.SetBytes(DataSongItem, data)
	song.Data.SetInt(DataSongType, int64(format.Platform))
	song.Data.SetInt(DataSongItemKey, int64(item.Key))
	return nil
}

// SongItemType returns the pak format recorded for song.
func SongItemType(song *types.SongData) *qb.PakFormat {
	platform, _ := song.Data.Int(DataSongType)
	return qb.NewPakFormat(qb.Platform(platform))
}

// IsGuitarHero4 reports whether game runs on the World Tour engine.
func IsGuitarHero4(game types.Game) bool {
	switch game {
	case types.GameGuitarHeroWorldTour,
		types.GameGuitarHeroMetallica,
		types.GameGuitarHeroSmashHits,
		types.GameGuitarHeroVanHalen:
		return true
	}
	return false
}

// IsGuitarHero5 reports whether game runs on the Guitar Hero 5 engine.
func IsGuitarHero5(game types.Game) bool {
	return game == types.GameGuitarHero5 || game == types.GameBandHero
}
