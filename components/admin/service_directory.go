package admin

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// UserInput is the create form payload of a user.
type UserInput struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Status  UserStatus `json:"status,omitempty"`
	RoleIDs []string   `json:"role_ids"`
}

// DefaultUserInput is staged by the user create form.
func DefaultUserInput() UserInput {
	return UserInput{Status: UserActive, RoleIDs: []string{}}
}

func (in *UserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Status == "" {
		in.Status = UserActive
	}
	in.RoleIDs = normalizeTags(in.RoleIDs)
}

// UserPatch carries the fields to change on a user. Nil fields are kept.
type UserPatch struct {
	Name    *string     `json:"name,omitempty"`
	Email   *string     `json:"email,omitempty"`
	Status  *UserStatus `json:"status,omitempty"`
	RoleIDs *[]string   `json:"role_ids,omitempty"`
}

func (p UserPatch) apply(u *User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.RoleIDs != nil {
		u.RoleIDs = normalizeTags(*p.RoleIDs)
	}
}

// RoleInput is the create form payload of a role.
type RoleInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

func (in *RoleInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.PermissionIDs = normalizeTags(in.PermissionIDs)
}

// RolePatch carries the fields to change on a role. Nil fields are kept.
type RolePatch struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	PermissionIDs *[]string `json:"permission_ids,omitempty"`
}

func (p RolePatch) apply(r *Role) {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		r.Description = strings.TrimSpace(*p.Description)
	}
	if p.PermissionIDs != nil {
		r.PermissionIDs = normalizeTags(*p.PermissionIDs)
	}
}

// PermissionInput is the create form payload of a permission.
type PermissionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (in *PermissionInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
}

// PermissionPatch carries the fields to change on a permission. Nil fields are kept.
type PermissionPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

func (p PermissionPatch) apply(perm *Permission) {
	if p.Name != nil {
		perm.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		perm.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		perm.Category = strings.TrimSpace(*p.Category)
	}
}

// CreateUser validates in and appends a new user. The avatar is derived from the name.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (UserView, error) {
	in.normalize()
	if err := s.validate(UserForm, in); err != nil {
		return UserView{}, err
	}
	s.mu.Lock()
	if err := checkRefs(UserForm, "role_ids", EntityRole, in.RoleIDs, s.roleIndex()); err != nil {
		s.mu.Unlock()
		return UserView{}, err
	}
	user, err := s.users.Create(ctx, User{
		Name:    in.Name,
		Email:   in.Email,
		Avatar:  AvatarURL(in.Name),
		RoleIDs: in.RoleIDs,
		Status:  in.Status,
	})
	var view UserView
	if err == nil {
		view = userView(user, s.roleIndex(), s.permissionIndex())
	}
	s.mu.Unlock()
	if err != nil {
		return UserView{}, err
	}
	return view, s.changed(ctx, ChangeEvent{Entity: EntityUser, Action: ChangeCreate, ID: user.ID}, map[string]any{
		"roles": len(user.RoleIDs),
	})
}

// UpdateUser merges patch into the user and validates the result before
// committing it. The avatar is kept.
func (s *Service) UpdateUser(ctx context.Context, id string, patch UserPatch) (UserView, error) {
	s.mu.Lock()
	current, ok := s.users.Get(id)
	if !ok {
		s.mu.Unlock()
		return UserView{}, notFound(EntityUser, id)
	}
	patch.apply(&current)
	in := UserInput{Name: current.Name, Email: current.Email, Status: current.Status, RoleIDs: normalizeTags(current.RoleIDs)}
	if err := s.validate(UserForm, in); err != nil {
		s.mu.Unlock()
		return UserView{}, err
	}
	if err := checkRefs(UserForm, "role_ids", EntityRole, in.RoleIDs, s.roleIndex()); err != nil {
		s.mu.Unlock()
		return UserView{}, err
	}
	user, err := s.users.Update(ctx, id, patch.apply)
	var view UserView
	if err == nil {
		view = userView(user, s.roleIndex(), s.permissionIndex())
	}
	s.mu.Unlock()
	if err != nil {
		return UserView{}, err
	}
	return view, s.changed(ctx, ChangeEvent{Entity: EntityUser, Action: ChangeUpdate, ID: id}, nil)
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.users.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.changed(ctx, ChangeEvent{Entity: EntityUser, Action: ChangeDelete, ID: id}, nil)
}

// User returns one user with roles resolved.
func (s *Service) User(id string) (UserView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.Get(id)
	if !ok {
		return UserView{}, notFound(EntityUser, id)
	}
	return userView(u, s.roleIndex(), s.permissionIndex()), nil
}

// Users returns the users visible under query with roles resolved.
func (s *Service) Users(query Query) []UserView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userViews(ApplyQuery(s.users.List(), UserQuerySpec, query))
}

// UserViews resolves the roles of users.
func (s *Service) UserViews(users []User) []UserView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userViews(users)
}

func (s *Service) userViews(users []User) []UserView {
	roles, perms := s.roleIndex(), s.permissionIndex()
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = userView(u, roles, perms)
	}
	return out
}

// CreateRole validates in and appends a new role.
func (s *Service) CreateRole(ctx context.Context, in RoleInput) (RoleView, error) {
	in.normalize()
	if err := s.validate(RoleForm, in); err != nil {
		return RoleView{}, err
	}
	s.mu.Lock()
	if err := checkRefs(RoleForm, "permission_ids", EntityPermission, in.PermissionIDs, s.permissionIndex()); err != nil {
		s.mu.Unlock()
		return RoleView{}, err
	}
	role, err := s.roles.Create(ctx, Role{
		Name:          in.Name,
		Description:   in.Description,
		PermissionIDs: in.PermissionIDs,
	})
	var view RoleView
	if err == nil {
		view = roleView(role, s.permissionIndex())
	}
	s.mu.Unlock()
	if err != nil {
		return RoleView{}, err
	}
	return view, s.changed(ctx, ChangeEvent{Entity: EntityRole, Action: ChangeCreate, ID: role.ID}, map[string]any{
		"name":        role.Name,
		"permissions": len(role.PermissionIDs),
	})
}

// UpdateRole merges patch into the role. Users see the change immediately
// because they reference roles by id.
func (s *Service) UpdateRole(ctx context.Context, id string, patch RolePatch) (RoleView, error) {
	s.mu.Lock()
	current, ok := s.roles.Get(id)
	if !ok {
		s.mu.Unlock()
		return RoleView{}, notFound(EntityRole, id)
	}
	patch.apply(&current)
	in := RoleInput{Name: current.Name, Description: current.Description, PermissionIDs: normalizeTags(current.PermissionIDs)}
	if err := s.validate(RoleForm, in); err != nil {
		s.mu.Unlock()
		return RoleView{}, err
	}
	if err := checkRefs(RoleForm, "permission_ids", EntityPermission, in.PermissionIDs, s.permissionIndex()); err != nil {
		s.mu.Unlock()
		return RoleView{}, err
	}
	role, err := s.roles.Update(ctx, id, patch.apply)
	var view RoleView
	if err == nil {
		view = roleView(role, s.permissionIndex())
	}
	s.mu.Unlock()
	if err != nil {
		return RoleView{}, err
	}
	return view, s.changed(ctx, ChangeEvent{Entity: EntityRole, Action: ChangeUpdate, ID: id}, nil)
}

// DeleteRole removes a role and drops it from every user holding it. Both
// mutations are applied under the service lock.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.roles.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}
	affected := s.users.UpdateWhere(ctx,
		func(u User) bool { return slices.Contains(u.RoleIDs, id) },
		func(u *User) { u.RoleIDs = withoutID(u.RoleIDs, id) },
	)
	s.mu.Unlock()
	if err := s.changed(ctx, ChangeEvent{Entity: EntityRole, Action: ChangeDelete, ID: id}, map[string]any{
		"cascaded_users": len(affected),
	}); err != nil {
		return err
	}
	for _, userID := range affected {
		if err := s.changed(ctx, ChangeEvent{Entity: EntityUser, Action: ChangeUpdate, ID: userID, Cascaded: true}, map[string]any{
			"removed_role": id,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Role returns one role with permissions resolved.
func (s *Service) Role(id string) (RoleView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles.Get(id)
	if !ok {
		return RoleView{}, notFound(EntityRole, id)
	}
	return roleView(r, s.permissionIndex()), nil
}

// Roles returns the roles visible under query with permissions resolved.
func (s *Service) Roles(query Query) []RoleView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleViews(ApplyQuery(s.roles.List(), RoleQuerySpec, query))
}

// RoleViews resolves the permissions of roles.
func (s *Service) RoleViews(roles []Role) []RoleView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleViews(roles)
}

func (s *Service) roleViews(roles []Role) []RoleView {
	perms := s.permissionIndex()
	out := make([]RoleView, len(roles))
	for i, r := range roles {
		out[i] = roleView(r, perms)
	}
	return out
}

// CreatePermission validates in and appends a new permission.
func (s *Service) CreatePermission(ctx context.Context, in PermissionInput) (Permission, error) {
	in.normalize()
	if err := s.validate(PermissionForm, in); err != nil {
		return Permission{}, err
	}
	s.mu.Lock()
	perm, err := s.permissions.Create(ctx, Permission{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
	})
	s.mu.Unlock()
	if err != nil {
		return Permission{}, err
	}
	return perm, s.changed(ctx, ChangeEvent{Entity: EntityPermission, Action: ChangeCreate, ID: perm.ID}, map[string]any{
		"name":     perm.Name,
		"category": perm.Category,
	})
}

// UpdatePermission merges patch into the permission.
func (s *Service) UpdatePermission(ctx context.Context, id string, patch PermissionPatch) (Permission, error) {
	s.mu.Lock()
	current, ok := s.permissions.Get(id)
	if !ok {
		s.mu.Unlock()
		return Permission{}, notFound(EntityPermission, id)
	}
	patch.apply(&current)
	in := PermissionInput{Name: current.Name, Description: current.Description, Category: current.Category}
	if err := s.validate(PermissionForm, in); err != nil {
		s.mu.Unlock()
		return Permission{}, err
	}
	perm, err := s.permissions.Update(ctx, id, patch.apply)
	s.mu.Unlock()
	if err != nil {
		return Permission{}, err
	}
	return perm, s.changed(ctx, ChangeEvent{Entity: EntityPermission, Action: ChangeUpdate, ID: id}, nil)
}

// DeletePermission removes a permission and drops it from every role holding it.
func (s *Service) DeletePermission(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.permissions.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}
	affected := s.roles.UpdateWhere(ctx,
		func(r Role) bool { return slices.Contains(r.PermissionIDs, id) },
		func(r *Role) { r.PermissionIDs = withoutID(r.PermissionIDs, id) },
	)
	s.mu.Unlock()
	if err := s.changed(ctx, ChangeEvent{Entity: EntityPermission, Action: ChangeDelete, ID: id}, map[string]any{
		"cascaded_roles": len(affected),
	}); err != nil {
		return err
	}
	for _, roleID := range affected {
		if err := s.changed(ctx, ChangeEvent{Entity: EntityRole, Action: ChangeUpdate, ID: roleID, Cascaded: true}, map[string]any{
			"removed_permission": id,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Permission returns one permission.
func (s *Service) Permission(id string) (Permission, error) {
	p, ok := s.permissions.Get(id)
	if !ok {
		return Permission{}, notFound(EntityPermission, id)
	}
	return p, nil
}

// Permissions returns the permissions visible under query.
func (s *Service) Permissions(query Query) []Permission {
	return ApplyQuery(s.permissions.List(), PermissionQuerySpec, query)
}

// checkRefs reports every id missing from index as a field error on form.
// Callers hold s.mu so the referenced collection cannot change before commit.
func checkRefs[T any](form FormSchema, field string, entity Entity, ids []string, index map[string]T) error {
	var fields []FieldError
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			fields = append(fields, FieldError{Field: field, Message: fmt.Sprintf("references unknown %s %q", entity, id)})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Form: form.Code, Fields: fields}
}

func (s *Service) roleIndex() map[string]Role {
	roles := s.roles.List()
	index := make(map[string]Role, len(roles))
	for _, r := range roles {
		index[r.ID] = r
	}
	return index
}

func (s *Service) permissionIndex() map[string]Permission {
	perms := s.permissions.List()
	index := make(map[string]Permission, len(perms))
	for _, p := range perms {
		index[p.ID] = p
	}
	return index
}

// userView materializes role references. Dangling ids are skipped.
func userView(u User, roles map[string]Role, perms map[string]Permission) UserView {
	view := UserView{User: u, Roles: make([]RoleView, 0, len(u.RoleIDs))}
	for _, id := range u.RoleIDs {
		if r, ok := roles[id]; ok {
			view.Roles = append(view.Roles, roleView(r, perms))
		}
	}
	return view
}

// roleView materializes permission references. Dangling ids are skipped.
func roleView(r Role, perms map[string]Permission) RoleView {
	view := RoleView{Role: r, Permissions: make([]Permission, 0, len(r.PermissionIDs))}
	for _, id := range r.PermissionIDs {
		if p, ok := perms[id]; ok {
			view.Permissions = append(view.Permissions, p)
		}
	}
	return view
}
