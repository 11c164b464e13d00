package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account pending admin approval")
	ErrNoSession          = errors.New("not logged in")
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type Service struct {
	store    core.Store
	hasher   core.Hasher
	auditor  core.Auditor
	validate *validator.Validate
	logger   core.Logger
	ttl      time.Duration
	mutex    sync.Mutex
}

func NewService(
	store core.Store,
	hasher core.Hasher,
	auditor core.Auditor,
	validate *validator.Validate,
	logger core.Logger,
	ttl time.Duration,
) *Service {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Service{
		store:    store,
		hasher:   hasher,
		auditor:  auditor,
		validate: validate,
		logger:   logger,
		ttl:      ttl,
	}
}

func (svc *Service) loadUsers(ctx context.Context) ([]User, error) {
	var accounts []account
	if _, err := core.LoadJSON(ctx, svc.store, core.KeyUsers, &accounts); err != nil {
		return nil, errors.Wrap(err, "loading users")
	}
	users := make([]User, len(accounts))
	for i, acc := range accounts {
		users[i] = acc.User
		users[i].PasswordHash = acc.Password
	}
	return users, nil
}

func (svc *Service) saveUsers(ctx context.Context, users []User) error {
	accounts := make([]account, len(users))
	for i, usr := range users {
		accounts[i] = account{User: usr, Password: usr.PasswordHash}
	}
	return core.SaveJSON(ctx, svc.store, core.KeyUsers, accounts)
}

func indexOf(users []User, uname string) int {
	for i, usr := range users {
		if usr.Username == uname {
			return i
		}
	}
	return -1
}

// Init seeds the admin account when no users are stored yet.
func (svc *Service) Init(ctx context.Context) error {
	if svc.hasher == nil {
		return core.ErrHasherUnavailable
	}
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	var accounts []account
	found, err := core.LoadJSON(ctx, svc.store, core.KeyUsers, &accounts)
	if err != nil || found {
		return err
	}
	admin := User{
		Username:      defaultAdminUsername,
		Name:          "Administrator",
		Role:          RoleAdmin,
		Status:        StatusActive,
		PasswordHash:  svc.hasher.Hash(defaultAdminPassword),
		PlainPassword: defaultAdminPassword,
		Permissions:   AllPermissions(),
		CreatedAt:     core.NowFunc().UTC(),
	}
	if err = svc.saveUsers(ctx, []User{admin}); err != nil {
		return err
	}
	svc.logger.Info(fmt.Sprintf("seeded default admin account %q", defaultAdminUsername))
	return nil
}

// Signup registers a pending registration officer.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	if svc.hasher == nil {
		return User{}, core.ErrHasherUnavailable
	}

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	users, err := svc.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	if indexOf(users, nu.Username) >= 0 {
		return User{}, core.NewValidationError(
			ErrUsernameExists,
			core.FieldError{Field: "username", Error: ErrUsernameExists.Error()},
		)
	}

	usr := User{
		Username:      nu.Username,
		Name:          nu.Name,
		Role:          RoleUser,
		NRC:           nu.NRC,
		Phone:         nu.Phone,
		Status:        StatusPending,
		PasswordHash:  svc.hasher.Hash(nu.Password),
		PlainPassword: nu.Password,
		Permissions:   OfficerPermissions(),
		CreatedAt:     core.NowFunc().UTC(),
	}
	if err = svc.saveUsers(ctx, append(users, usr)); err != nil {
		return User{}, err
	}
	svc.auditor.Log(ctx, "New user signup: "+usr.Username)
	return usr, nil
}

// Login establishes the session of an active account.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (svc *Service) Login(ctx context.Context, uname, pwd string) (Session, error) {
	if svc.hasher == nil {
		return Session{}, core.ErrHasherUnavailable
	}
	hash := svc.hasher.Hash(pwd)

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	users, err := svc.loadUsers(ctx)
	if err != nil {
		return Session{}, err
	}
	idx := indexOf(users, core.CleanString(uname))
	if idx < 0 || users[idx].PasswordHash != hash {
		return Session{}, ErrInvalidCredentials
	}
	usr := users[idx]
	if usr.Status == StatusPending {
		return Session{}, ErrPendingApproval
	}

	sess := Session{
		ID:     uuid.NewString(),
		User:   usr,
		Expiry: core.NowFunc().Add(svc.ttl).UTC(),
	}
	if err = core.SaveJSON(ctx, svc.store, core.KeySession, sess); err != nil {
		return Session{}, err
	}
	svc.auditor.Log(ctx, "User Login")
	return sess, nil
}

// CurrentSession returns the live session and slides its expiry.
// An expired session is removed.
func (svc *Service) CurrentSession(ctx context.Context) (Session, error) {
	sess, found, err := loadSession(ctx, svc.store)
	if err != nil {
		return Session{}, errors.Wrap(err, "loading session")
	}
	if !found {
		return Session{}, ErrNoSession
	}

	now := core.NowFunc()
	if sess.Expired(now) {
		if err = svc.store.Delete(ctx, core.KeySession); err != nil && !errors.Is(err, core.ErrKeyNotFound) {
			svc.logger.Warn("user: removing expired session", err)
		}
		return Session{}, ErrNoSession
	}

	sess.Expiry = now.Add(svc.ttl).UTC()
	if err = core.SaveJSON(ctx, svc.store, core.KeySession, sess); err != nil {
		svc.logger.Warn("user: sliding session expiry", err)
	}
	return sess, nil
}

// CurrentUser returns the user snapshot taken at login.
func (svc *Service) CurrentUser(ctx context.Context) (User, error) {
	sess, err := svc.CurrentSession(ctx)
	if err != nil {
		return User{}, err
	}
	return sess.User, nil
}

func (svc *Service) Logout(ctx context.Context) error {
	sess, found, _ := loadSession(ctx, svc.store)
	if !found {
		return nil
	}
	if !sess.Expired(core.NowFunc()) {
		svc.auditor.Log(ctx, "User Logout")
	}
	if err := svc.store.Delete(ctx, core.KeySession); err != nil && !errors.Is(err, core.ErrKeyNotFound) {
		return err
	}
	return nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	users, err := svc.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	users, err := svc.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	idx := indexOf(users, core.CleanString(uname))
	if idx < 0 {
		return User{}, ErrNotFound
	}
	return users[idx], nil
}

// update applies mutate to the named account and persists the collection.
func (svc *Service) update(ctx context.Context, uname string, mutate func(*User)) (User, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	users, err := svc.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	idx := indexOf(users, core.CleanString(uname))
	if idx < 0 {
		return User{}, ErrNotFound
	}
	mutate(&users[idx])
	if err = svc.saveUsers(ctx, users); err != nil {
		return User{}, err
	}
	return users[idx], nil
}

func (svc *Service) Approve(ctx context.Context, uname string) (User, error) {
	usr, err := svc.update(ctx, uname, func(u *User) { u.Status = StatusActive })
	if err != nil {
		return User{}, err
	}
	svc.auditor.Log(ctx, "Approved user: "+usr.Username)
	return usr, nil
}

func (svc *Service) Delete(ctx context.Context, uname string) error {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	users, err := svc.loadUsers(ctx)
	if err != nil {
		return err
	}
	uname = core.CleanString(uname)
	idx := indexOf(users, uname)
	if idx < 0 {
		return ErrNotFound
	}
	users = append(users[:idx], users[idx+1:]...)
	if err = svc.saveUsers(ctx, users); err != nil {
		return err
	}
	svc.auditor.Log(ctx, "Deleted user: "+uname)
	return nil
}

// UpdatePassword replaces both the hash and the plaintext copy of the named account's password.
func (svc *Service) UpdatePassword(ctx context.Context, uname string, pc PasswordChange) error {
	if err := pc.Validate(svc.validate); err != nil {
		return err
	}
	if svc.hasher == nil {
		return core.ErrHasherUnavailable
	}
	hash := svc.hasher.Hash(pc.Password)
	usr, err := svc.update(ctx, uname, func(u *User) {
		u.PasswordHash = hash
		u.PlainPassword = pc.Password
	})
	if err != nil {
		return err
	}
	svc.auditor.Log(ctx, "Password updated for user: "+usr.Username)
	return nil
}

// ChangeOwnPassword updates the password of the logged-in account.
func (svc *Service) ChangeOwnPassword(ctx context.Context, pc PasswordChange) error {
	usr, err := svc.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return svc.UpdatePassword(ctx, usr.Username, pc)
}
