package ports

import (
	"context"

	"github.com/forestplants/storefront/internal/core/domain"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SessionService is the signed-in identity of the shopper.
type SessionService interface {
	IsLoggedIn() bool
	IsAdmin() bool
	Role() string
	Credential() string
	Profile() *domain.UserProfile

	Login(ctx context.Context, email, password string) (*domain.UserProfile, error)
	Register(ctx context.Context, in RegisterInput) (*domain.UserProfile, error)
	RefreshProfile(ctx context.Context) (*domain.UserProfile, error)
	Logout()
}

// CartService is the shopper's cart.
type CartService interface {
	Items() domain.Cart
	ItemCount() int
	Total() float64

	AddItem(plantID domain.ID, name string, price float64, quantity int) error
	RemoveItem(plantID domain.ID)
	SetQuantity(plantID domain.ID, quantity int)
	Clear()
}
