package pages

import (
	"strconv"
	"time"
)

// helpers d'affichage utilisés par les templates

func itoa(n int) string {
	return strconv.Itoa(n)
}

func note(n float64) string {
	if n == 0 {
		return "-"
	}
	return strconv.FormatFloat(n, 'f', 1, 64)
}

// coord formate une coordonnée GPS sans zéros superflus.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}
