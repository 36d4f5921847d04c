package services

import (
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shopdemo/internal/domain"
	applog "shopdemo/internal/log"
)

// The one account the demo accepts. The pair is shown on the login page.
const (
	DemoEmail    = "test@contoso.com"
	DemoPassword = "hogehoge"
)

var DemoUser = domain.AuthUser{
	ID:        "user-001",
	Email:     DemoEmail,
	FirstName: "Test",
	LastName:  "User",
	Phone:     "090-1234-5678",
}

var demoHash = sync.OnceValues(func() ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
})

type Credentials struct {
	Email    string
	Password string
}

func DemoCredentials() Credentials {
	return Credentials{Email: DemoEmail, Password: DemoPassword}
}

// Authenticator checks credentials against the demo account after a fixed
// delay standing in for network latency.
type Authenticator struct {
	Delay time.Duration
	sleep func(time.Duration)
}

func NewAuthenticator(delay time.Duration) *Authenticator {
	return &Authenticator{Delay: delay, sleep: time.Sleep}
}

func (a *Authenticator) Authenticate(email, password string) (domain.AuthUser, error) {
	if a.Delay > 0 {
		a.sleep(a.Delay)
	}
	if email != DemoEmail {
		return domain.AuthUser{}, ErrUnknownEmail
	}
	hash, err := demoHash()
	if err != nil {
		return domain.AuthUser{}, ErrLoginFailed
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return domain.AuthUser{}, ErrWrongPassword
	}
	return DemoUser, nil
}

// ValidateSession reports whether a stored user still belongs to a known
// account.
func ValidateSession(u domain.AuthUser) bool {
	return u.ID == DemoUser.ID
}

// AuthStore owns the signed-in user of one session and writes it through
// to storage on every change.
type AuthStore struct {
	mu      sync.Mutex
	auth    *Authenticator
	storage Storage
	state   AuthState
}

// NewAuthStore restores a stored user if it validates, and silently drops
// it otherwise.
func NewAuthStore(storage Storage, auth *Authenticator) *AuthStore {
	s := &AuthStore{auth: auth, storage: storage}
	s.state = ReduceAuth(AuthState{}, LoadUser{User: s.load()})
	return s
}

func (s *AuthStore) load() *domain.AuthUser {
	raw, ok, err := s.storage.GetItem(AuthStorageKey)
	if err != nil {
		applog.Warn("auth.load.fail", err, nil)
		return nil
	}
	if !ok {
		return nil
	}
	var u domain.AuthUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil || !ValidateSession(u) {
		if err := s.storage.RemoveItem(AuthStorageKey); err != nil {
			applog.Warn("auth.persist.fail", err, nil)
		}
		return nil
	}
	return &u
}

func (s *AuthStore) dispatch(a AuthAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(a)
}

// apply runs with mu held.
func (s *AuthStore) apply(a AuthAction) {
	prev := s.state.User
	s.state = ReduceAuth(s.state, a)
	if !sameUser(prev, s.state.User) {
		s.persist()
	}
}

func sameUser(a, b *domain.AuthUser) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *AuthStore) persist() {
	var err error
	if s.state.User == nil {
		err = s.storage.RemoveItem(AuthStorageKey)
	} else {
		var b []byte
		if b, err = json.Marshal(s.state.User); err == nil {
			err = s.storage.SetItem(AuthStorageKey, string(b))
		}
	}
	if err != nil {
		applog.Warn("auth.persist.fail", err, nil)
	}
}

// Login checks the credentials and reports success. While one attempt is
// in flight further calls return false without touching the state.
func (s *AuthStore) Login(email, password string) bool {
	s.mu.Lock()
	if s.state.IsLoading {
		s.mu.Unlock()
		return false
	}
	s.apply(LoginStart{})
	s.mu.Unlock()

	u, err := s.auth.Authenticate(email, password)
	if err != nil {
		s.dispatch(LoginFailure{Err: err})
		return false
	}
	s.dispatch(LoginSuccess{User: u})
	return true
}

func (s *AuthStore) Logout() {
	s.dispatch(Logout{})
}

func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *AuthStore) User() *domain.AuthUser { return s.State().User }

func (s *AuthStore) IsLoggedIn() bool { return s.State().User != nil }

func (s *AuthStore) IsLoading() bool { return s.State().IsLoading }

func (s *AuthStore) LastError() error { return s.State().Err }
