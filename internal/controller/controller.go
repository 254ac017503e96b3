// Package controller — cycle de vie des listes du dashboard.
//
// Chaque vue de liste (propositions, signalements, avis, ...) possède
// une copie transitoire des enregistrements renvoyés par l'API. Le
// contrôleur générique gère le chargement, les filtres, la pagination
// et les mutations optimistes de cette copie, sous mutex.
package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// Record — enregistrement doté d'un identifiant canonique. Tous les
// types de model le satisfont.
type Record interface {
	CanonicalID() string
}

// Fetcher charge une page d'enregistrements selon les filtres actifs.
type Fetcher[T Record] func(ctx context.Context, filters map[string]string, page int) ([]T, *model.Pagination, error)

// Snapshot — vue cohérente de l'état du contrôleur pour le rendu.
type Snapshot[T Record] struct {
	Items      []T
	Pagination *model.Pagination
	Filters    map[string]string
	Page       int
	// Err : erreur du dernier chargement de premier plan, nil si réussi
	Err error
	// Loaded : au moins un chargement a abouti
	Loaded bool
}

// ListController — état d'une vue de liste. Thread-safe.
type ListController[T Record] struct {
	fetch  Fetcher[T]
	logger *slog.Logger

	mu         sync.Mutex
	items      []T
	pagination *model.Pagination
	filters    map[string]string
	page       int
	err        error
	loaded     bool
	closed     bool
	// seq : numéro de la dernière charge émise. Seule la charge la
	// plus récente a le droit de valider sa réponse, les réponses en
	// retard sont abandonnées.
	seq uint64
}

// NewListController crée un contrôleur de liste pour un Fetcher.
func NewListController[T Record](name string, fetch Fetcher[T], logger *slog.Logger) *ListController[T] {
	return &ListController[T]{
		fetch:   fetch,
		logger:  logger.With(slog.String("component", "controller"), slog.String("liste", name)),
		filters: make(map[string]string),
		page:    1,
	}
}

// Load charge la liste au premier plan. En cas d'échec la liste
// précédente est conservée et l'erreur exposée dans le Snapshot ; un
// échec au tout premier chargement laisse la liste vide.
func (c *ListController[T]) Load(ctx context.Context) error {
	return c.load(ctx, false)
}

// LoadSilent charge la liste en arrière-plan (sondage). Les erreurs
// sont journalisées mais jamais exposées au rendu.
func (c *ListController[T]) LoadSilent(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *ListController[T]) load(ctx context.Context, silent bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.seq++
	mySeq := c.seq
	filters := copyFilters(c.filters)
	page := c.page
	c.mu.Unlock()

	items, pagination, err := c.fetch(ctx, filters, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Réponse en retard ou contrôleur fermé : abandon sans toucher
	// à l'état
	if c.closed || mySeq != c.seq {
		return nil
	}

	if err != nil {
		if silent {
			c.logger.Warn("échec du rafraîchissement silencieux", slog.Any("err", err))
			return err
		}
		c.err = err
		return err
	}

	c.items = dedupeByID(items)
	c.pagination = pagination
	c.err = nil
	c.loaded = true
	return nil
}

// SetFilter positionne un filtre et revient à la page 1. Une valeur
// vide retire le filtre.
func (c *ListController[T]) SetFilter(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		delete(c.filters, key)
	} else {
		c.filters[key] = value
	}
	c.page = 1
}

// SetPage positionne la page courante (minimum 1).
func (c *ListController[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.page = page
}

// Mutate exécute une action sur l'enregistrement identifié, applique
// le correctif optimiste en cas de succès puis déclenche un
// rechargement de réconciliation en arrière-plan. En cas d'échec la
// liste reste identique et l'erreur est retournée.
func (c *ListController[T]) Mutate(ctx context.Context, id string, action func(ctx context.Context) error, patch func(*T)) error {
	if err := action(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	// Invalide les charges en vol : leur réponse, émise avant la
	// mutation, écraserait le correctif optimiste
	c.seq++
	if patch != nil {
		for i := range c.items {
			if c.items[i].CanonicalID() == id {
				patch(&c.items[i])
				break
			}
		}
		c.items = dedupeByID(c.items)
	}
	c.mu.Unlock()

	// Réconciliation avec l'état du serveur, hors chemin critique.
	// Le contrôle de séquence neutralise les réponses en retard.
	go func() {
		_ = c.LoadSilent(context.WithoutCancel(ctx))
	}()
	return nil
}

// MutateRemove exécute une action de suppression : en cas de succès
// l'enregistrement identifié disparaît immédiatement de la copie, puis
// un rechargement de réconciliation suit en arrière-plan.
func (c *ListController[T]) MutateRemove(ctx context.Context, id string, action func(ctx context.Context) error) error {
	if err := action(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.seq++
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.CanonicalID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.mu.Unlock()

	go func() {
		_ = c.LoadSilent(context.WithoutCancel(ctx))
	}()
	return nil
}

// Snapshot retourne une copie cohérente de l'état pour le rendu.
func (c *ListController[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)

	var pagination *model.Pagination
	if c.pagination != nil {
		p := *c.pagination
		pagination = &p
	}

	return Snapshot[T]{
		Items:      items,
		Pagination: pagination,
		Filters:    copyFilters(c.filters),
		Page:       c.page,
		Err:        c.err,
		Loaded:     c.loaded,
	}
}

// Close détache le contrôleur : toute réponse arrivant après cet
// appel est abandonnée et l'état ne change plus.
func (c *ListController[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// dedupeByID retire les doublons d'identifiant canonique en conservant
// la première occurrence.
func dedupeByID[T Record](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	result := items[:0:0]
	for _, item := range items {
		id := item.CanonicalID()
		if id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		result = append(result, item)
	}
	return result
}

func copyFilters(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		out[k] = v
	}
	return out
}
