// Package model holds the GORM persistence models. They never leave the infra layer;
// repositories map them to domain entities.
package model

import "time"

// MemberModel mirrors the 'registration' table. Role and CreatedAt are filled by
// column defaults, so neither is ever written by the application on insert.
type MemberModel struct {
	ID        int64     `gorm:"primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:uq_registration_email"`
	Phone     string    `gorm:"column:phone;not null;uniqueIndex:uq_registration_phone"`
	IDNumber  string    `gorm:"column:id_number;not null;uniqueIndex:uq_registration_id_number"`
	County    string    `gorm:"column:county;not null"`
	Password  *string   `gorm:"column:password"`
	Role      *string   `gorm:"column:role;default:'member'"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (MemberModel) TableName() string {
	return "registration"
}
