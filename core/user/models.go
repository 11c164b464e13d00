package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gce/core"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user" // registration officer
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
)

// Permission names one of the independent capability flags of an account.
type Permission string

const (
	PermView     Permission = "view"
	PermCreate   Permission = "create"
	PermEdit     Permission = "edit"
	PermDelete   Permission = "delete"
	PermExport   Permission = "export"
	PermSettings Permission = "settings"
	PermSMS      Permission = "sms"
)

type Permissions struct {
	View     bool `json:"view"`
	Create   bool `json:"create"`
	Edit     bool `json:"edit"`
	Delete   bool `json:"delete"`
	Export   bool `json:"export"`
	Settings bool `json:"settings"`
	SMS      bool `json:"sms"`
}

// AllPermissions is the permission set of the seeded admin.
func AllPermissions() Permissions {
	return Permissions{View: true, Create: true, Edit: true, Delete: true, Export: true, Settings: true, SMS: true}
}

// OfficerPermissions is the restricted set granted on signup.
func OfficerPermissions() Permissions {
	return Permissions{View: true, Create: true, Settings: true}
}

func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case PermView:
		return p.View
	case PermCreate:
		return p.Create
	case PermEdit:
		return p.Edit
	case PermDelete:
		return p.Delete
	case PermExport:
		return p.Export
	case PermSettings:
		return p.Settings
	case PermSMS:
		return p.SMS
	}
	return false
}

type User struct {
	Username      string      `json:"username"`
	Name          string      `json:"name"`
	Role          Role        `json:"role"`
	NRC           string      `json:"nrc,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	Status        Status      `json:"status"`
	PasswordHash  string      `json:"-"`
	PlainPassword string      `json:"plainPassword,omitempty"` // kept for admin visibility
	Permissions   Permissions `json:"permissions"`
	CreatedAt     time.Time   `json:"createdAt"` // UTC
}

func (u User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u User) IsActive() bool { return u.Status == StatusActive }

// Can reports whether u holds perm. Admins hold every permission.
func (u User) Can(perm Permission) bool {
	return u.IsAdmin() || u.Permissions.Has(perm)
}

// Public strips the credential fields.
func (u User) Public() User {
	u.PasswordHash = ""
	u.PlainPassword = ""
	return u
}

// account is the persisted form of a User.
type account struct {
	User
	Password string `json:"password"`
}

// NewUser contains information needed to sign up.
type NewUser struct {
	Name     string `json:"name" validate:"required,notblank"`
	Username string `json:"username" validate:"required,notblank"`
	NRC      string `json:"nrc" validate:"required,notblank"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=4"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username)
	nu.NRC = core.CleanString(nu.NRC)
	nu.Phone = core.CleanString(nu.Phone)
	return validate.Struct(nu)
}

type PasswordChange struct {
	Password        string `json:"password" validate:"required,min=4"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (pc PasswordChange) Validate(validate *validator.Validate) error {
	return validate.Struct(pc)
}
