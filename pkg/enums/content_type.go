package enums

import (
	"fmt"
	"strings"
)

// ContentType classifies a catalog entry.
type ContentType string

const (
	ContentTypeFilm   ContentType = "Película"
	ContentTypeSeries ContentType = "Serie"
	ContentTypeGame   ContentType = "Juego"
)

var validContentTypes = []ContentType{
	ContentTypeFilm,
	ContentTypeSeries,
	ContentTypeGame,
}

// filmAliases covers the spellings the catalog has accumulated for films.
var filmAliases = []string{"película", "pelicula", "movie"}

// String implements fmt.Stringer.
func (c ContentType) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ContentType) IsValid() bool {
	for _, candidate := range validContentTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsFilm reports whether the value denotes a film under any accepted alias.
// Pricing branches on this distinction.
func (c ContentType) IsFilm() bool {
	lowered := strings.ToLower(string(c))
	for _, alias := range filmAliases {
		if lowered == alias {
			return true
		}
	}
	return false
}

// ParseContentType converts raw input into a canonical ContentType.
// Accepts the aliases the legacy catalog used for each type.
func ParseContentType(value string) (ContentType, error) {
	lowered := strings.ToLower(strings.TrimSpace(value))
	for _, alias := range filmAliases {
		if lowered == alias {
			return ContentTypeFilm, nil
		}
	}
	switch lowered {
	case "serie", "tv", "tv show":
		return ContentTypeSeries, nil
	case "juego", "game":
		return ContentTypeGame, nil
	}
	return "", fmt.Errorf("invalid content type %q", value)
}
