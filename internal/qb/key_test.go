package qb

import "testing"

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"male", 0xAA721F56},
		{"female", 0xB58B7593},
		{"artist", 0xFEA66978},
		{"year", 0x447D8CC8},
		{"genre", 0x7CAFCC07},
		{"title", 0xD4C98794},
		{"name", 0xA1DC81F9},
		{"singer", 0x6749E668},
		{"original_artist", 0xADDA4AA8},
		{"hammer_on_measure_scale", 0xDEB26ABF},
		{"band_playback_volume", 0xD8F335CF},
		{"guitar_playback_volume", 0xA449CAD3},
		{"overall_song_volume", 0x46507438},
		{"album_title", 0xA271CDB2},
		{"permanent_songlist_props", 0x5A93AE17},
		{"gh5_songlist_props", 0x3CC2A6C9},
		{"gh4_songlist_props", 0x92AA3758},
		{"rock", 0xC8B6445D},
		{"goth", 0x33FB36DC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyOf(tt.name); got != tt.want {
				t.Errorf("KeyOf(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestKeyOf_CaseInsensitive(t *testing.T) {
	if KeyOf("ARTIST") != KeyOf("artist") {
		t.Error("KeyOf is case-sensitive")
	}
}

func TestKey_String(t *testing.T) {
	if got := Key(0xAB).String(); got != "0x000000AB" {
		t.Errorf("String() = %q", got)
	}
}

func TestNamedKey(t *testing.T) {
	n := Named("year")
	if n.Key != 0x447D8CC8 {
		t.Errorf("Named(year).Key = %s", n.Key)
	}
	if got := n.String(); got != "year(0x447D8CC8)" {
		t.Errorf("String() = %q", got)
	}
	if got := (NamedKey{Key: 1}).String(); got != "0x00000001" {
		t.Errorf("unnamed String() = %q", got)
	}
}

func TestPlatformFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Platform
	}{
		{"songlist.qb.xen", PlatformXbox360},
		{"SONGLIST.QB.PS3", PlatformPS3},
		{"qb.pak.ngc", PlatformWii},
		{"songlist.qb.ps2", PlatformPS2},
		{"songlist.qb", PlatformPC},
	}
	for _, tt := range tests {
		if got := PlatformFromPath(tt.path); got != tt.want {
			t.Errorf("PlatformFromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
