package rbac

import (
	"testing"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

func menuPaths(entries []MenuEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

func contains(paths []string, p string) bool {
	for _, v := range paths {
		if v == p {
			return true
		}
	}
	return false
}

func TestMenuFor(t *testing.T) {
	tests := []struct {
		name        string
		role        Role
		wantLen     int
		wantAbsent  []string
		wantPresent []string
	}{
		{
			name:        "super_admin voit tout",
			role:        RoleSuperAdmin,
			wantLen:     10,
			wantPresent: []string{"/dashboard", "/dashboard/statistiques", "/dashboard/profils"},
		},
		{
			name:        "admin voit tout",
			role:        RoleAdmin,
			wantLen:     10,
			wantPresent: []string{"/dashboard", "/dashboard/profils"},
		},
		{
			name:        "agent_communal sans tableau de bord ni statistiques ni profils",
			role:        RoleAgentCommunal,
			wantLen:     7,
			wantAbsent:  []string{"/dashboard", "/dashboard/statistiques", "/dashboard/profils"},
			wantPresent: []string{"/dashboard/signalements", "/dashboard/profil"},
		},
		{
			name:    "citoyen sans menu",
			role:    RoleCitoyen,
			wantLen: 0,
		},
		{
			name:    "rôle inconnu sans menu",
			role:    Role("moderateur"),
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MenuFor(tt.role)
			if len(got) != tt.wantLen {
				t.Fatalf("MenuFor(%s) : %d entrées, attendu %d", tt.role, len(got), tt.wantLen)
			}
			paths := menuPaths(got)
			for _, p := range tt.wantPresent {
				if !contains(paths, p) {
					t.Errorf("MenuFor(%s) : %s absent du menu", tt.role, p)
				}
			}
			for _, p := range tt.wantAbsent {
				if contains(paths, p) {
					t.Errorf("MenuFor(%s) : %s ne doit pas figurer au menu", tt.role, p)
				}
			}
		})
	}
}

func TestMenuOrderStable(t *testing.T) {
	// Le tableau de bord d'abord, Mon Profil en dernier
	menu := MenuFor(RoleSuperAdmin)
	if menu[0].Path != "/dashboard" {
		t.Errorf("première entrée = %s, attendu /dashboard", menu[0].Path)
	}
	if menu[len(menu)-1].Path != "/dashboard/profil" {
		t.Errorf("dernière entrée = %s, attendu /dashboard/profil", menu[len(menu)-1].Path)
	}
}

func TestAllowedNotificationTypes(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want []model.TypeNotification
	}{
		{
			name: "admin reçoit les quatre catégories",
			role: RoleAdmin,
			want: []model.TypeNotification{
				model.NotificationProposition, model.NotificationSignalement,
				model.NotificationFavori, model.NotificationUtilisateur,
			},
		},
		{
			name: "agent_communal sans les événements utilisateur",
			role: RoleAgentCommunal,
			want: []model.TypeNotification{
				model.NotificationProposition, model.NotificationSignalement,
				model.NotificationFavori,
			},
		},
		{name: "citoyen sans notifications", role: RoleCitoyen, want: nil},
		{name: "rôle inconnu sans notifications", role: Role("x"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllowedNotificationTypes(tt.role)
			if len(got) != len(tt.want) {
				t.Fatalf("AllowedNotificationTypes(%s) : %d types, attendu %d", tt.role, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("type[%d] = %s, attendu %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCanSeeNotification(t *testing.T) {
	if !CanSeeNotification(RoleAgentCommunal, model.NotificationSignalement) {
		t.Error("agent_communal doit voir les notifications de signalement")
	}
	if CanSeeNotification(RoleAgentCommunal, model.NotificationUtilisateur) {
		t.Error("agent_communal ne doit pas voir les notifications utilisateur")
	}
	if CanSeeNotification(Role("inconnu"), model.NotificationProposition) {
		t.Error("un rôle inconnu ne doit rien voir")
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		role           Role
		staff          bool
		moderate       bool
		manageProfiles bool
		manageUsers    bool
		stats          bool
		zoneScoped     bool
	}{
		{RoleSuperAdmin, true, true, true, true, true, false},
		{RoleAdmin, true, true, true, true, true, false},
		{RoleAgentCommunal, true, true, false, false, false, true},
		{RoleCitoyen, false, false, false, false, false, false},
		{Role("inconnu"), false, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := IsStaff(tt.role); got != tt.staff {
				t.Errorf("IsStaff = %v, attendu %v", got, tt.staff)
			}
			if got := CanModerate(tt.role); got != tt.moderate {
				t.Errorf("CanModerate = %v, attendu %v", got, tt.moderate)
			}
			if got := CanManageProfiles(tt.role); got != tt.manageProfiles {
				t.Errorf("CanManageProfiles = %v, attendu %v", got, tt.manageProfiles)
			}
			if got := CanManageUsers(tt.role); got != tt.manageUsers {
				t.Errorf("CanManageUsers = %v, attendu %v", got, tt.manageUsers)
			}
			if got := CanSeeStatistics(tt.role); got != tt.stats {
				t.Errorf("CanSeeStatistics = %v, attendu %v", got, tt.stats)
			}
			if got := ZoneScoped(tt.role); got != tt.zoneScoped {
				t.Errorf("ZoneScoped = %v, attendu %v", got, tt.zoneScoped)
			}
		})
	}
}

func TestAssignableRoles(t *testing.T) {
	if got := AssignableRoles(RoleSuperAdmin); len(got) != 3 {
		t.Errorf("super_admin doit pouvoir attribuer 3 rôles, obtenu %d", len(got))
	}
	got := AssignableRoles(RoleAdmin)
	if len(got) != 2 {
		t.Fatalf("admin doit pouvoir attribuer 2 rôles, obtenu %d", len(got))
	}
	for _, r := range got {
		if r == RoleAdmin || r == RoleSuperAdmin {
			t.Errorf("admin ne doit pas pouvoir attribuer %s", r)
		}
	}
	if AssignableRoles(RoleAgentCommunal) != nil {
		t.Error("agent_communal ne doit attribuer aucun rôle")
	}
}

func TestCanAccessPath(t *testing.T) {
	if !CanAccessPath(RoleAgentCommunal, "/dashboard/signalements") {
		t.Error("agent_communal doit accéder aux signalements")
	}
	if CanAccessPath(RoleAgentCommunal, "/dashboard/statistiques") {
		t.Error("agent_communal ne doit pas accéder aux statistiques")
	}
}
