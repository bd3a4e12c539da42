// Package pricing derives the daily rental price of a catalog item from
// its type, age, and genre. The function is pure: same inputs, same price.
package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/cinespark/cinespark-backend/pkg/enums"
)

const (
	filmBase    = 12000
	seriesBase  = 2500
	gameBase    = 15000
	defaultBase = 2500

	filmRoundStep = 500
	filmMin       = 3000
	filmMax       = 30000

	otherRoundStep = 100
	otherMin       = 1000
	otherMax       = 5000
)

// Input carries the item attributes the price depends on.
type Input struct {
	Type        enums.ContentType
	Genre       string
	ReleaseYear int
}

// DailyPrice computes the per-day rental price for the item as of now.
// Films round to multiples of 500 and land in [3000, 30000]; series and
// games round to multiples of 100 and land in [1000, 5000].
func DailyPrice(in Input, now time.Time) int64 {
	currentYear := now.Year()
	year := in.ReleaseYear
	if year == 0 {
		year = currentYear
	}
	age := currentYear - year

	isFilm := in.Type.IsFilm()

	base := baseForType(in.Type)
	price := float64(base) * ageMultiplier(age, isFilm) * genreMultiplier(in.Genre, isFilm)

	if isFilm {
		return clamp(roundToStep(price, filmRoundStep), filmMin, filmMax)
	}
	return clamp(roundToStep(price, otherRoundStep), otherMin, otherMax)
}

func baseForType(t enums.ContentType) int64 {
	switch {
	case t.IsFilm():
		return filmBase
	case t == enums.ContentTypeSeries:
		return seriesBase
	case t == enums.ContentTypeGame:
		return gameBase
	default:
		return defaultBase
	}
}

func ageMultiplier(age int, isFilm bool) float64 {
	if isFilm {
		switch {
		case age <= 1:
			return 1.5
		case age <= 3:
			return 1.3
		case age <= 5:
			return 1.1
		case age <= 10:
			return 1.0
		case age <= 20:
			return 0.8
		default:
			return 0.6
		}
	}
	switch {
	case age <= 1:
		return 1.4
	case age <= 3:
		return 1.2
	case age <= 5:
		return 1.0
	case age <= 10:
		return 0.9
	case age <= 20:
		return 0.7
	default:
		return 0.5
	}
}

func genreMultiplier(genre string, isFilm bool) float64 {
	g := strings.ToLower(genre)
	contains := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(g, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("acción", "accion", "action"):
		if isFilm {
			return 1.2
		}
		return 1.15
	case contains("terror", "horror"):
		return 1.1
	case contains("ciencia ficción", "sci-fi", "fantasía", "fantasia", "science fiction", "fantasy"):
		if isFilm {
			return 1.15
		}
		return 1.12
	case contains("documental", "documentary"):
		if isFilm {
			return 0.7
		}
		return 0.6
	case contains("animación", "animacion", "animation"):
		if isFilm {
			return 0.9
		}
		return 0.8
	default:
		return 1.0
	}
}

func roundToStep(price float64, step int64) int64 {
	return int64(math.Round(price/float64(step))) * step
}

func clamp(value, min, max int64) int64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
