// Package session keeps the state of one terminal session: who is logged in
// and what is in their cart. Nothing here is persisted.
package session

import (
	"github.com/google/uuid"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
)

type Session struct {
	ID   string
	User *domain.User
	Cart *Cart
}

func New() *Session {
	return &Session{
		ID:   uuid.NewString(),
		Cart: NewCart(),
	}
}

// Login replaces the current user and starts with an empty cart.
func (s *Session) Login(user *domain.User) {
	s.User = user
	s.Cart.Clear()
}

func (s *Session) Logout() {
	s.User = nil
	s.Cart.Clear()
}

func (s *Session) LoggedIn() bool {
	return s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s.User != nil && s.User.IsAdmin()
}
