package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidAddress = errors.New("invalid wallet public key")

// User models a wallet-keyed identity. The compressed public key is the
// account identifier; the private key never leaves the wallet.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PublicKey string    `json:"public_key" bson:"public_key"`
	Address   string    `json:"address" bson:"address"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
