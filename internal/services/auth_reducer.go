package services

import "shopdemo/internal/domain"

type AuthState struct {
	User      *domain.AuthUser
	IsLoading bool
	Err       error
}

type AuthAction interface{ authAction() }

type LoginStart struct{}
type LoginSuccess struct{ User domain.AuthUser }
type LoginFailure struct{ Err error }
type Logout struct{}

// LoadUser restores a user read back from storage; nil means signed out.
type LoadUser struct{ User *domain.AuthUser }

func (LoginStart) authAction()   {}
func (LoginSuccess) authAction() {}
func (LoginFailure) authAction() {}
func (Logout) authAction()       {}
func (LoadUser) authAction()     {}

func ReduceAuth(s AuthState, a AuthAction) AuthState {
	switch a := a.(type) {
	case LoginStart:
		return AuthState{User: s.User, IsLoading: true}
	case LoginSuccess:
		u := a.User
		return AuthState{User: &u}
	case LoginFailure:
		return AuthState{Err: a.Err}
	case Logout:
		return AuthState{}
	case LoadUser:
		if a.User == nil {
			return AuthState{}
		}
		u := *a.User
		return AuthState{User: &u}
	}
	return s
}
