package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// User is an end customer. Admin accounts live in the same table.
type User struct {
	ID         uint                        `json:"id" gorm:"primaryKey"`
	Name       string                      `json:"name" gorm:"not null"`
	Email      string                      `json:"email" gorm:"uniqueIndex;not null"`
	Mobile     string                      `json:"mobile" gorm:"uniqueIndex;not null"`
	Password   string                      `json:"-" gorm:"not null"`
	IsVerified bool                        `json:"isVerified" gorm:"default:false"`
	IsBlocked  bool                        `json:"isBlocked" gorm:"default:false"`
	Address    datatypes.JSONType[Address] `json:"address"`
	Role       Role                        `json:"role" gorm:"type:varchar(16);default:user"`
	CreatedAt  time.Time                   `json:"createdAt"`
	UpdatedAt  time.Time                   `json:"updatedAt"`
}

// PartySummary is the slice of a User or Provider inlined into appointment views.
type PartySummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
}

func (u *User) Summary() *PartySummary {
	if u == nil {
		return nil
	}
	return &PartySummary{ID: u.ID, Name: u.Name, Email: u.Email, Mobile: u.Mobile}
}
