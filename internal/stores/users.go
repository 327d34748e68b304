package stores

import (
	"context"
	"errors"
	"strings"

	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/core"
	"kontor/internal/log"
)

const (
	pathAuth               = "/api/auth"
	pathUser               = "/api/user"
	pathRole               = "/api/role"
	pathPermissionProfiles = "/api/permissionprofile"
)

// UserStore handles login and the user and role administration.
type UserStore struct {
	base
	users    cache.Collection[core.User]
	roles    cache.Collection[core.Role]
	profiles cache.Collection[core.PermissionProfile]
}

func NewUserStore(d Deps) *UserStore {
	return &UserStore{base: newBase(d, log.ComponentUsers)}
}

// Login exchanges e-mail and password for tokens and authenticates the
// session. Any failure leaves the session logged out.
func (s *UserStore) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return core.ErrMissingCredentials
	}

	var auth api.AuthResponse
	err := s.client.Post(ctx, pathAuth, api.Basic{User: email, Password: password}, nil, &auth)
	if err == nil && auth.AccessToken == "" {
		err = errors.New("login: backend returned no access token")
	}
	if err != nil {
		if serr := s.session.SetNotAuthenticated(ctx); serr != nil {
			s.slog.LogError(ctx, "Failed to reset session", serr, log.OpLogin, nil)
		}
		s.logger.WarnContext(ctx, "Login failed", log.FieldUser, email, log.FieldError, err.Error())
		return err
	}

	if err := s.session.SetAuthenticated(ctx, email, auth); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Logged in", log.FieldUser, email)
	return nil
}

// Logout clears the session and the caches that belong to the user.
func (s *UserStore) Logout(ctx context.Context) error {
	s.users.Clear()
	s.roles.Clear()
	s.profiles.Clear()
	return s.session.SetNotAuthenticated(ctx)
}

// RegisterUser creates an account; no session is needed.
func (s *UserStore) RegisterUser(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return core.ErrMissingCredentials
	}
	body := map[string]string{"email": email, "password": password}
	if err := s.client.Put(ctx, pathUser, nil, body, nil); err != nil {
		return s.failed(ctx, "register user", err)
	}
	return nil
}

func (s *UserStore) GetUsers(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.users, force, "list users", pathUser, "users")
}

func (s *UserStore) Users() []core.User {
	return s.users.Items()
}

func (s *UserStore) User(id int64) core.Lookup[core.User] {
	return s.users.Find(func(u core.User) bool { return u.ID == id })
}

// GetUser fetches one user and refreshes its cached copy.
func (s *UserStore) GetUser(ctx context.Context, id int64) (core.User, error) {
	if id == 0 {
		return core.User{}, core.ErrMissingID
	}
	var u core.User
	err := s.call(ctx, "get user", func(creds api.Credentials) error {
		return s.client.Get(ctx, api.Path(pathUser, id), nil, creds, &u)
	})
	if err != nil {
		return core.User{}, err
	}
	if u.ID == 0 {
		u.ID = id
	}
	s.users.Update(func(c core.User) bool { return c.ID == id }, func(core.User) core.User { return u })
	return u, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, id int64, upd core.UserUpdate) (core.User, error) {
	if id == 0 {
		return core.User{}, core.ErrMissingID
	}
	if upd.IsEmpty() {
		return core.User{}, core.ErrNothingToUpdate
	}

	body := map[string]string{}
	if upd.Email != nil {
		body["email"] = *upd.Email
	}
	if upd.Name != nil {
		body["name"] = *upd.Name
	}
	if upd.Password != nil {
		body["password"] = *upd.Password
	}

	var resp core.User
	err := s.call(ctx, "update user", func(creds api.Credentials) error {
		return s.client.Post(ctx, api.Path(pathUser, id), creds, body, &resp)
	})
	if err != nil {
		return core.User{}, err
	}
	if resp.ID == 0 {
		resp = s.User(id).OrElse(core.User{ID: id}).Apply(upd)
	}
	s.users.Update(func(c core.User) bool { return c.ID == id }, func(core.User) core.User { return resp })
	s.publish(ctx, EntityUser, ActionUpdated, id)
	return resp, nil
}

func (s *UserStore) GetUserRoles(ctx context.Context, userID int64) ([]core.Role, error) {
	if userID == 0 {
		return nil, core.ErrMissingID
	}
	return fetchList[core.Role](ctx, &s.base, "list user roles", api.Path(pathUser, userID, "roles"), "roles")
}

func (s *UserStore) SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if userID == 0 {
		return core.ErrMissingID
	}
	if roleIDs == nil {
		roleIDs = []int64{}
	}
	body := map[string][]int64{"roleIds": roleIDs}
	err := s.call(ctx, "set user roles", func(creds api.Credentials) error {
		return s.client.Post(ctx, api.Path(pathUser, userID, "roles"), creds, body, nil)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EntityUser, ActionUpdated, userID)
	return nil
}

func (s *UserStore) GetRoles(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.roles, force, "list roles", pathRole, "roles")
}

func (s *UserStore) Roles() []core.Role {
	return s.roles.Items()
}

func (s *UserStore) Role(id int64) core.Lookup[core.Role] {
	return s.roles.Find(func(r core.Role) bool { return r.ID == id })
}

// CreateRole creates an empty role.
func (s *UserStore) CreateRole(ctx context.Context, name string) (core.Role, error) {
	if strings.TrimSpace(name) == "" {
		return core.Role{}, core.ErrMissingName
	}
	var resp core.Role
	err := s.call(ctx, "create role", func(creds api.Credentials) error {
		return s.client.Put(ctx, pathRole, creds, map[string]string{"name": name}, &resp)
	})
	if err != nil {
		return core.Role{}, err
	}
	if resp.Name == "" {
		resp.Name = name
	}
	if resp.ID != 0 && s.roles.Len() > 0 {
		s.roles.Append(resp)
	}
	s.publish(ctx, EntityRole, ActionCreated, resp.ID)
	return resp, nil
}

func (s *UserStore) UpdateRole(ctx context.Context, id int64, name string) (core.Role, error) {
	if id == 0 {
		return core.Role{}, core.ErrMissingID
	}
	if strings.TrimSpace(name) == "" {
		return core.Role{}, core.ErrMissingName
	}
	var resp core.Role
	err := s.call(ctx, "update role", func(creds api.Credentials) error {
		return s.client.Post(ctx, api.Path(pathRole, id), creds, map[string]string{"name": name}, &resp)
	})
	if err != nil {
		return core.Role{}, err
	}
	if resp.ID == 0 {
		resp = core.Role{ID: id, Name: name}
	}
	s.roles.Update(func(r core.Role) bool { return r.ID == id }, func(core.Role) core.Role { return resp })
	s.publish(ctx, EntityRole, ActionUpdated, id)
	return resp, nil
}

func (s *UserStore) DeleteRole(ctx context.Context, id int64) error {
	if id == 0 {
		return core.ErrMissingID
	}
	err := s.call(ctx, "delete role", func(creds api.Credentials) error {
		return s.client.Delete(ctx, api.Path(pathRole, id), creds)
	})
	if err != nil {
		return err
	}
	s.roles.Remove(func(r core.Role) bool { return r.ID == id })
	s.publish(ctx, EntityRole, ActionDeleted, id)
	return nil
}

func (s *UserStore) GetRolePermissions(ctx context.Context, roleID int64) ([]core.Permission, error) {
	if roleID == 0 {
		return nil, core.ErrMissingID
	}
	return fetchList[core.Permission](ctx, &s.base, "list role permissions", api.Path(pathRole, roleID, "permission"), "permissions")
}

func (s *UserStore) GetRolePermissionProfiles(ctx context.Context, roleID int64) ([]core.PermissionProfile, error) {
	if roleID == 0 {
		return nil, core.ErrMissingID
	}
	return fetchList[core.PermissionProfile](ctx, &s.base, "list role permission profiles", api.Path(pathRole, roleID, "permissionprofile"), "permissionProfiles")
}

func (s *UserStore) GetPermissionProfiles(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.profiles, force, "list permission profiles", pathPermissionProfiles, "permissionProfiles")
}

func (s *UserStore) PermissionProfiles() []core.PermissionProfile {
	return s.profiles.Items()
}
