package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	Username    string    `bson:"username" json:"username" validate:"required,min=4,max=20"`
	Email       string    `bson:"email" json:"email" validate:"required,email"`
	Password    string    `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role        Role      `bson:"role" json:"role"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	LastLoginAt time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	LastDevice  string    `bson:"last_device,omitempty" json:"-"` // browser/OS summary from the login user agent
}
