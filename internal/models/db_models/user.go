package db_models

import "strings"

type User struct {
	BaseModel
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`

	// Plain-text preferences, not sensitive
	SeatPreference string `gorm:"size:50"`
	MealPreference string `gorm:"size:50"`

	Trips []Trip
}

// DisplayName falls back to the email address when no name is on file.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
