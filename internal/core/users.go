package core

type (
	User struct {
		ID    int64  `json:"id" yaml:"id"`
		Email string `json:"email" yaml:"email"`
		Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	}

	Role struct {
		ID   int64  `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	}

	Permission struct {
		ID   int64  `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	}

	// PermissionProfile bundles permissions under one assignable name.
	PermissionProfile struct {
		ID          int64   `json:"id" yaml:"id"`
		Name        string  `json:"name" yaml:"name"`
		Permissions []int64 `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	}
)

// UserUpdate is a partial user update; nil fields are left untouched.
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Name == nil && u.Password == nil
}

// Apply merges the update into u. Passwords are never kept client-side.
func (usr User) Apply(u UserUpdate) User {
	if u.Email != nil {
		usr.Email = *u.Email
	}
	if u.Name != nil {
		usr.Name = *u.Name
	}
	return usr
}
