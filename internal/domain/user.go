package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Surname      string    `json:"surname"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(surname, name string, phone, email *string, passwordHash, salt string, createdAt time.Time) *User {
	return &User{
		Surname:      surname,
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
	}
}

// UserUpdate carries an optional value per mutable profile field. A nil field
// is left untouched; a non-nil field is written as-is.
type UserUpdate struct {
	Surname *string
	Name    *string
	Phone   *string
	Email   *string
	// Password is plaintext at the HTTP boundary; the user service replaces
	// it with a bcrypt hash and fills Salt before the repository sees it.
	Password *string
	Salt     *string
}

// IsEmpty reports whether no field is set.
func (u UserUpdate) IsEmpty() bool {
	return u.Surname == nil && u.Name == nil && u.Phone == nil && u.Email == nil && u.Password == nil
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, p PaginationParams) ([]*User, int, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
}

// UserService defines the business logic for user profiles and login.
type UserService interface {
	Create(ctx context.Context, surname, name string, phone, email *string, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, p PaginationParams) ([]*User, int, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
