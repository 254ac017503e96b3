package notifier

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFeed() *Feed {
	return NewFeed(nil, "cotonav:notifications", testLogger())
}

func TestAddNewestFirst(t *testing.T) {
	f := testFeed()
	f.Add(model.Notification{ID: "n-1", Type: model.NotificationProposition})
	f.Add(model.Notification{ID: "n-2", Type: model.NotificationSignalement})

	got := f.ForRole(rbac.RoleAdmin, nil)
	if len(got) != 2 {
		t.Fatalf("%d notifications, attendu 2", len(got))
	}
	if got[0].ID != "n-2" || got[1].ID != "n-1" {
		t.Error("les notifications doivent être servies de la plus récente à la plus ancienne")
	}
}

func TestBufferBounded(t *testing.T) {
	f := testFeed()
	f.size = 10
	for i := 0; i < 25; i++ {
		f.Add(model.Notification{ID: "n-" + strconv.Itoa(i), Type: model.NotificationSignalement})
	}

	got := f.ForRole(rbac.RoleAdmin, nil)
	if len(got) != 10 {
		t.Fatalf("%d notifications, le tampon doit être borné à 10", len(got))
	}
	if got[0].ID != "n-24" {
		t.Errorf("tête = %s, la plus récente doit survivre", got[0].ID)
	}
}

func TestForRoleFiltersTypes(t *testing.T) {
	f := testFeed()
	f.Add(model.Notification{ID: "n-1", Type: model.NotificationProposition})
	f.Add(model.Notification{ID: "n-2", Type: model.NotificationUtilisateur})
	f.Add(model.Notification{ID: "n-3", Type: model.NotificationSignalement})

	tests := []struct {
		role rbac.Role
		want int
	}{
		{rbac.RoleAdmin, 3},
		{rbac.RoleSuperAdmin, 3},
		// agent_communal ne voit pas les événements utilisateur
		{rbac.RoleAgentCommunal, 2},
		{rbac.RoleCitoyen, 0},
		{rbac.Role("inconnu"), 0},
	}

	for _, tt := range tests {
		got := f.ForRole(tt.role, nil)
		if len(got) != tt.want {
			t.Errorf("ForRole(%s) : %d notifications, attendu %d", tt.role, len(got), tt.want)
		}
		for _, n := range got {
			if tt.role == rbac.RoleAgentCommunal && n.Type == model.NotificationUtilisateur {
				t.Error("notification utilisateur visible par un agent communal")
			}
		}
	}
}

func TestForRoleMarksRead(t *testing.T) {
	f := testFeed()
	f.Add(model.Notification{ID: "n-1", Type: model.NotificationProposition})
	f.Add(model.Notification{ID: "n-2", Type: model.NotificationSignalement})

	got := f.ForRole(rbac.RoleAdmin, map[string]bool{"n-1": true})
	for _, n := range got {
		if n.ID == "n-1" && !n.Lu {
			t.Error("n-1 doit être marquée lue")
		}
		if n.ID == "n-2" && n.Lu {
			t.Error("n-2 ne doit pas être marquée lue")
		}
	}

	if count := f.UnreadCount(rbac.RoleAdmin, map[string]bool{"n-1": true}); count != 1 {
		t.Errorf("UnreadCount = %d, attendu 1", count)
	}
}

func TestHandleMessage(t *testing.T) {
	f := testFeed()

	f.handleMessage([]byte(`{
		"_id": "n-9",
		"type": "signalement",
		"titre": "Nouveau signalement",
		"message": "Équipement dégradé signalé à Ganhi",
		"ressourceId": "s-12",
		"createdAt": "2026-06-01T10:00:00Z"
	}`))

	got := f.ForRole(rbac.RoleAgentCommunal, nil)
	if len(got) != 1 {
		t.Fatalf("%d notifications, attendu 1", len(got))
	}
	n := got[0]
	if n.ID != "n-9" || n.RessourceID != "s-12" {
		t.Errorf("alias non normalisés : %+v", n)
	}
	want := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	if !n.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, attendu %v", n.CreatedAt, want)
	}
}

func TestHandleMessageInvalidPayloadIgnored(t *testing.T) {
	f := testFeed()
	f.handleMessage([]byte(`ceci n'est pas du JSON`))

	if got := f.ForRole(rbac.RoleAdmin, nil); len(got) != 0 {
		t.Error("un message illisible ne doit pas entrer dans le tampon")
	}
}

func TestHandleMessageFillsMissingFields(t *testing.T) {
	f := testFeed()
	f.handleMessage([]byte(`{"type":"proposition","titre":"Nouvelle proposition"}`))

	got := f.ForRole(rbac.RoleAdmin, nil)
	if len(got) != 1 {
		t.Fatalf("%d notifications, attendu 1", len(got))
	}
	if got[0].ID == "" {
		t.Error("un identifiant doit être généré quand le producteur n'en fournit pas")
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("un horodatage doit être posé quand le producteur n'en fournit pas")
	}
}
