package domain

import (
	"fmt"
	"strings"
)

// Platform is the storefront that activates a key.
type Platform string

const (
	PlatformSteam       Platform = "Steam"
	PlatformOrigin      Platform = "Origin"
	PlatformUbisoft     Platform = "Ubisoft Connect"
	PlatformGOG         Platform = "GOG"
	PlatformEpic        Platform = "Epic Games"
	PlatformXbox        Platform = "Xbox"
	PlatformPlayStation Platform = "PlayStation"
)

// Platforms lists every platform in display order.
var Platforms = []Platform{
	PlatformSteam, PlatformOrigin, PlatformUbisoft, PlatformGOG,
	PlatformEpic, PlatformXbox, PlatformPlayStation,
}

// IsValid checks if the platform is one of the known values.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformSteam, PlatformOrigin, PlatformUbisoft, PlatformGOG,
		PlatformEpic, PlatformXbox, PlatformPlayStation:
		return true
	default:
		return false
	}
}

// Genre classifies a game.
type Genre string

const (
	GenreAction     Genre = "Action"
	GenreRPG        Genre = "RPG"
	GenreStrategy   Genre = "Strategy"
	GenreSports     Genre = "Sports"
	GenreAdventure  Genre = "Adventure"
	GenreSimulation Genre = "Simulation"
	GenreFPS        Genre = "FPS"

	// GenreAll is the selector sentinel matching every genre. It is never a
	// valid product genre.
	GenreAll Genre = "All"
)

// Genres lists every product genre in display order (GenreAll excluded).
var Genres = []Genre{
	GenreAction, GenreRPG, GenreStrategy, GenreSports,
	GenreAdventure, GenreSimulation, GenreFPS,
}

// IsValid checks if the genre is a product genre.
func (g Genre) IsValid() bool {
	switch g {
	case GenreAction, GenreRPG, GenreStrategy, GenreSports,
		GenreAdventure, GenreSimulation, GenreFPS:
		return true
	default:
		return false
	}
}

// ParseGenre resolves a genre by name, ignoring case and surrounding space.
func ParseGenre(s string) (Genre, error) {
	s = strings.TrimSpace(s)
	for _, g := range Genres {
		if strings.EqualFold(string(g), s) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: genre %q", ErrUnknownValue, s)
}

// Region restricts where a key can be activated.
type Region string

const (
	RegionGlobal Region = "Global"
	RegionEU     Region = "EU"
	RegionUS     Region = "US"
	RegionLATAM  Region = "LATAM"
)

// Regions lists every region in display order.
var Regions = []Region{RegionGlobal, RegionEU, RegionUS, RegionLATAM}

// IsValid checks if the region is one of the known values.
func (r Region) IsValid() bool {
	switch r {
	case RegionGlobal, RegionEU, RegionUS, RegionLATAM:
		return true
	default:
		return false
	}
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is user or assistant.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}
