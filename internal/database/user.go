package database

import "time"

// User is migrated for the account table the schema reserves. No route
// reads or writes it yet.
type User struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;type:text;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
