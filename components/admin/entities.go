package admin

import (
	"slices"
	"time"
)

// DateLayout is the format used for widget creation dates.
const DateLayout = "2006-01-02"

// WidgetQuerySpec searches widget names and filters by status or model label.
var WidgetQuerySpec = QuerySpec[Widget]{
	SearchFields: func(w Widget) []string { return []string{w.Name} },
	Filters: map[string]func(Widget, string) bool{
		"status": FieldEquals(func(w Widget) string { return string(w.Status) }),
		"model":  FieldEquals(func(w Widget) string { return w.AIModel }),
	},
}

// ModelQuerySpec searches name, provider and description.
var ModelQuerySpec = QuerySpec[AIModel]{
	SearchFields: func(m AIModel) []string { return []string{m.Name, m.Provider, m.Description} },
	Filters: map[string]func(AIModel, string) bool{
		"status":     FieldEquals(func(m AIModel) string { return string(m.Status) }),
		"provider":   FieldEquals(func(m AIModel) string { return m.Provider }),
		"capability": FieldContains(func(m AIModel) []string { return m.Capabilities }),
	},
}

// UserQuerySpec searches name and email.
var UserQuerySpec = QuerySpec[User]{
	SearchFields: func(u User) []string { return []string{u.Name, u.Email} },
	Filters: map[string]func(User, string) bool{
		"status": FieldEquals(func(u User) string { return string(u.Status) }),
		"role":   FieldContains(func(u User) []string { return u.RoleIDs }),
	},
}

// RoleQuerySpec searches name and description.
var RoleQuerySpec = QuerySpec[Role]{
	SearchFields: func(r Role) []string { return []string{r.Name, r.Description} },
	Filters: map[string]func(Role, string) bool{
		"permission": FieldContains(func(r Role) []string { return r.PermissionIDs }),
	},
}

// PermissionQuerySpec searches name, description and category.
var PermissionQuerySpec = QuerySpec[Permission]{
	SearchFields: func(p Permission) []string { return []string{p.Name, p.Description, p.Category} },
	Filters: map[string]func(Permission, string) bool{
		"category": FieldEquals(func(p Permission) string { return p.Category }),
	},
}

func widgetStoreConfig(ids IDGenerator, clock func() time.Time) StoreConfig[Widget] {
	return StoreConfig[Widget]{
		Entity:   EntityWidget,
		IDs:      ids,
		Clock:    clock,
		AssignID: func(w *Widget, id string) { w.ID = id },
		Stamp: func(w *Widget, now time.Time, created bool) {
			if created {
				w.CreatedAt = now.Format(DateLayout)
			}
		},
	}
}

func modelStoreConfig(ids IDGenerator, clock func() time.Time) StoreConfig[AIModel] {
	return StoreConfig[AIModel]{
		Entity:   EntityModel,
		IDs:      ids,
		Clock:    clock,
		AssignID: func(m *AIModel, id string) { m.ID = id },
		Stamp: func(m *AIModel, now time.Time, created bool) {
			if created {
				m.CreatedAt = now
			}
			m.UpdatedAt = now
		},
	}
}

func userStoreConfig(ids IDGenerator, clock func() time.Time) StoreConfig[User] {
	return StoreConfig[User]{
		Entity:   EntityUser,
		IDs:      ids,
		Clock:    clock,
		AssignID: func(u *User, id string) { u.ID = id },
		Stamp: func(u *User, now time.Time, created bool) {
			if created {
				u.CreatedAt = now
			}
			u.UpdatedAt = now
		},
	}
}

func roleStoreConfig(ids IDGenerator, clock func() time.Time) StoreConfig[Role] {
	return StoreConfig[Role]{
		Entity:   EntityRole,
		IDs:      ids,
		Clock:    clock,
		AssignID: func(r *Role, id string) { r.ID = id },
		Stamp: func(r *Role, now time.Time, created bool) {
			if created {
				r.CreatedAt = now
			}
			r.UpdatedAt = now
		},
	}
}

func permissionStoreConfig(ids IDGenerator, clock func() time.Time) StoreConfig[Permission] {
	return StoreConfig[Permission]{
		Entity:   EntityPermission,
		IDs:      ids,
		Clock:    clock,
		AssignID: func(p *Permission, id string) { p.ID = id },
		Stamp: func(p *Permission, now time.Time, created bool) {
			if created {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
		},
	}
}

func withoutID(ids []string, drop string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == drop })
}
