package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signalements(ids ...string) []model.Signalement {
	items := make([]model.Signalement, 0, len(ids))
	for _, id := range ids {
		items = append(items, model.Signalement{ID: id, Statut: model.SignalementNouveau})
	}
	return items
}

func ids(items []model.Signalement) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestLoadReplacesList(t *testing.T) {
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		return signalements("s-1", "s-2"), &model.Pagination{Page: 1, Total: 2, Pages: 1}, nil
	}
	c := NewListController("signalements", fetch, testLogger())

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load : %v", err)
	}
	snap := c.Snapshot()
	if len(snap.Items) != 2 || !snap.Loaded || snap.Err != nil {
		t.Errorf("snapshot inattendu : %+v", snap)
	}
	if snap.Pagination == nil || snap.Pagination.Total != 2 {
		t.Error("pagination absente du snapshot")
	}
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	var fail bool
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		if fail {
			return nil, nil, errors.New("API indisponible")
		}
		return signalements("s-1"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("premier Load : %v", err)
	}

	fail = true
	if err := c.Load(context.Background()); err == nil {
		t.Fatal("le second Load doit échouer")
	}

	snap := c.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "s-1" {
		t.Error("la liste précédente doit être conservée après un échec")
	}
	if snap.Err == nil {
		t.Error("l'erreur du chargement de premier plan doit être exposée")
	}
}

func TestFirstLoadFailureLeavesEmptyList(t *testing.T) {
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		return nil, nil, errors.New("API indisponible")
	}
	c := NewListController("signalements", fetch, testLogger())

	if err := c.Load(context.Background()); err == nil {
		t.Fatal("Load doit échouer")
	}
	snap := c.Snapshot()
	if len(snap.Items) != 0 || snap.Loaded {
		t.Error("liste vide attendue après un échec du premier chargement")
	}
	if snap.Err == nil {
		t.Error("erreur attendue dans le snapshot")
	}
}

func TestLoadSilentDoesNotExposeError(t *testing.T) {
	var fail bool
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		if fail {
			return nil, nil, errors.New("API indisponible")
		}
		return signalements("s-1"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	fail = true
	c.LoadSilent(context.Background())

	snap := c.Snapshot()
	if snap.Err != nil {
		t.Error("un échec de rafraîchissement silencieux ne doit pas être exposé")
	}
	if len(snap.Items) != 1 {
		t.Error("la liste doit rester inchangée")
	}
}

func TestSetFilterResetsPage(t *testing.T) {
	var gotFilters map[string]string
	var gotPage int
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		gotFilters, gotPage = filters, page
		return nil, nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())

	c.SetPage(4)
	c.SetFilter("statut", "nouveau")
	c.Load(context.Background())

	if gotPage != 1 {
		t.Errorf("page = %d, un changement de filtre doit revenir à la page 1", gotPage)
	}
	if gotFilters["statut"] != "nouveau" {
		t.Errorf("filters = %v", gotFilters)
	}

	// Valeur vide : retrait du filtre
	c.SetFilter("statut", "")
	c.Load(context.Background())
	if _, ok := gotFilters["statut"]; ok {
		t.Error("une valeur vide doit retirer le filtre")
	}
}

func TestDedupeByCanonicalID(t *testing.T) {
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		return signalements("s-1", "s-2", "s-1", "s-3", "s-2"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	snap := c.Snapshot()
	got := ids(snap.Items)
	want := []string{"s-1", "s-2", "s-3"}
	if len(got) != len(want) {
		t.Fatalf("éléments = %v, attendu %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("élément[%d] = %s, attendu %s (première occurrence conservée)", i, got[i], want[i])
		}
	}
}

func TestOverlappingLoadsNewestWins(t *testing.T) {
	// Deux chargements concurrents : le premier émis répond en
	// dernier, sa réponse doit être abandonnée.
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-release
			return signalements("ancien"), nil, nil
		}
		return signalements("recent"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())

	done := make(chan struct{})
	go func() {
		c.Load(context.Background())
		close(done)
	}()

	// Attendre que le premier chargement soit en vol
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Second chargement : répond immédiatement
	c.Load(context.Background())

	// Libérer la réponse en retard
	close(release)
	<-done

	snap := c.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "recent" {
		t.Errorf("éléments = %v, la charge la plus récente doit gagner", ids(snap.Items))
	}
}

func TestCloseDropsLateResponses(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		<-release
		return signalements("tardif"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())

	done := make(chan struct{})
	go func() {
		c.Load(context.Background())
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	c.Close()
	close(release)
	<-done

	snap := c.Snapshot()
	if len(snap.Items) != 0 {
		t.Error("aucune mise à jour d'état après Close")
	}
}

func TestMutateFailureLeavesListUnchanged(t *testing.T) {
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		return signalements("s-1", "s-2"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	err := c.Mutate(context.Background(), "s-1",
		func(ctx context.Context) error { return errors.New("refusé") },
		func(s *model.Signalement) { s.Statut = model.SignalementResolu },
	)
	if err == nil {
		t.Fatal("Mutate doit propager l'échec de l'action")
	}

	snap := c.Snapshot()
	if snap.Items[0].Statut != model.SignalementNouveau {
		t.Error("la liste doit rester identique après un échec de mutation")
	}
}

func TestMutateAppliesOptimisticPatch(t *testing.T) {
	// L'état côté serveur évolue avec l'action : le rechargement de
	// réconciliation renvoie alors le même statut que le correctif.
	var mu sync.Mutex
	server := signalements("s-1", "s-2")

	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		mu.Lock()
		defer mu.Unlock()
		items := make([]model.Signalement, len(server))
		copy(items, server)
		return items, nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	err := c.Mutate(context.Background(), "s-2",
		func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			server[1].Statut = model.SignalementEnCours
			return nil
		},
		func(s *model.Signalement) { s.Statut = model.SignalementEnCours },
	)
	if err != nil {
		t.Fatalf("Mutate : %v", err)
	}

	snap := c.Snapshot()
	for _, item := range snap.Items {
		if item.ID == "s-2" && item.Statut != model.SignalementEnCours {
			t.Error("le correctif optimiste doit être visible immédiatement")
		}
		if item.ID == "s-1" && item.Statut != model.SignalementNouveau {
			t.Error("les autres enregistrements ne doivent pas changer")
		}
	}
}

func TestMutateInvalidatesInFlightLoad(t *testing.T) {
	// Une charge en vol au moment de la mutation porte un état capturé
	// avant le correctif optimiste : sa réponse, arrivée après, doit
	// être abandonnée au lieu d'écraser le correctif.
	var mu sync.Mutex
	server := signalements("s-1")
	calls := 0
	inFlight := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		mu.Lock()
		calls++
		n := calls
		items := make([]model.Signalement, len(server))
		copy(items, server)
		mu.Unlock()
		if n == 2 {
			// État lu avant la mutation, réponse retardée après elle
			close(inFlight)
			<-release
		}
		return items, nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	done := make(chan struct{})
	go func() {
		c.LoadSilent(context.Background())
		close(done)
	}()
	<-inFlight

	err := c.Mutate(context.Background(), "s-1",
		func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			server[0].Statut = model.SignalementResolu
			return nil
		},
		func(s *model.Signalement) { s.Statut = model.SignalementResolu },
	)
	if err != nil {
		t.Fatalf("Mutate : %v", err)
	}

	close(release)
	<-done

	snap := c.Snapshot()
	if snap.Items[0].Statut != model.SignalementResolu {
		t.Errorf("statut = %s, la réponse en retard ne doit pas écraser le correctif optimiste",
			snap.Items[0].Statut)
	}
}

func TestMutateRemove(t *testing.T) {
	var mu sync.Mutex
	server := signalements("s-1", "s-2", "s-3")

	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		mu.Lock()
		defer mu.Unlock()
		items := make([]model.Signalement, len(server))
		copy(items, server)
		return items, nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	err := c.MutateRemove(context.Background(), "s-2",
		func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			server = append(server[:1], server[2:]...)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("MutateRemove : %v", err)
	}

	snap := c.Snapshot()
	for _, item := range snap.Items {
		if item.ID == "s-2" {
			t.Error("l'enregistrement supprimé doit disparaître immédiatement")
		}
	}
	if len(snap.Items) != 2 {
		t.Errorf("%d éléments, attendu 2", len(snap.Items))
	}
}

func TestMutateRemoveFailureLeavesListUnchanged(t *testing.T) {
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		return signalements("s-1", "s-2"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	err := c.MutateRemove(context.Background(), "s-1",
		func(ctx context.Context) error { return errors.New("refusé") },
	)
	if err == nil {
		t.Fatal("MutateRemove doit propager l'échec")
	}
	if snap := c.Snapshot(); len(snap.Items) != 2 {
		t.Error("la liste doit rester identique après un échec")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	fetch := func(ctx context.Context, filters map[string]string, page int) ([]model.Signalement, *model.Pagination, error) {
		return signalements("s-1"), nil, nil
	}
	c := NewListController("signalements", fetch, testLogger())
	c.Load(context.Background())

	snap := c.Snapshot()
	snap.Items[0].Statut = model.SignalementRejete
	snap.Filters["statut"] = "rejete"

	again := c.Snapshot()
	if again.Items[0].Statut == model.SignalementRejete {
		t.Error("la modification d'un snapshot ne doit pas toucher l'état interne")
	}
	if _, ok := again.Filters["statut"]; ok {
		t.Error("les filtres du snapshot doivent être une copie")
	}
}
