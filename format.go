package rawksd

import (
	"github.com/simonhull/rawksd/internal/fps4"
	"github.com/simonhull/rawksd/internal/milo"
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// Data model re-exports.
type (
	SongData     = types.SongData
	Game         = types.Game
	Instrument   = types.Instrument
	AudioFormat  = types.AudioFormat
	Progress     = types.Progress
	FormatType   = types.FormatType
	Container    = types.Container
	FormatData   = registry.FormatData
	PlatformData = registry.PlatformData
	Format       = registry.Format
	Engine       = registry.Engine
	Storage      = registry.Storage
	Candidate    = registry.Candidate
)

// Re-export the game constants.
const (
	GameUnknown                  = types.GameUnknown
	GameGuitarHero3              = types.GameGuitarHero3
	GameGuitarHeroAerosmith      = types.GameGuitarHeroAerosmith
	GameGuitarHeroWorldTour      = types.GameGuitarHeroWorldTour
	GameGuitarHeroMetallica      = types.GameGuitarHeroMetallica
	GameGuitarHeroSmashHits      = types.GameGuitarHeroSmashHits
	GameGuitarHeroVanHalen       = types.GameGuitarHeroVanHalen
	GameGuitarHero5              = types.GameGuitarHero5
	GameBandHero                 = types.GameBandHero
	GameGuitarHeroWarriorsOfRock = types.GameGuitarHeroWarriorsOfRock
	GameRockBand                 = types.GameRockBand
	GameRockBand2                = types.GameRockBand2
)

// Re-export the container constants.
const (
	ContainerUnknown   = types.ContainerUnknown
	ContainerArchive   = types.ContainerArchive
	ContainerMultiPart = types.ContainerMultiPart
	ContainerItemTree  = types.ContainerItemTree
)

// DetectContainer reports the binary container layout of data by its magic.
// Data with no known magic is assumed to be an item tree, which carries no
// magic of its own; empty data is unknown.
func DetectContainer(data []byte) Container {
	switch {
	case len(data) == 0:
		return ContainerUnknown
	case fps4.IsArchive(data):
		return ContainerArchive
	case milo.IsContainer(data):
		return ContainerMultiPart
	default:
		return ContainerItemTree
	}
}
