// Package model — types internes du Dashboard Module.
//
// L'API CotoNav renvoie des champs sous plusieurs alias selon les
// endpoints (id / _id, created_at / createdAt, ...). Les types de ce
// paquet normalisent ces alias au décodage JSON : le reste du code ne
// voit jamais les alias, uniquement la forme canonique.
package model

import (
	"time"
)

// Pagination — enveloppe de pagination renvoyée par les endpoints de liste.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// firstNonEmpty retourne la première chaîne non vide.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstTime retourne le premier *time.Time non nul, sinon le zéro.
func firstTime(vals ...*time.Time) time.Time {
	for _, v := range vals {
		if v != nil && !v.IsZero() {
			return *v
		}
	}
	return time.Time{}
}

// firstFloat retourne le premier *float64 non nul, sinon 0.
func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
