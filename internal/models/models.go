package models

type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Username     string `gorm:"unique;not null"                json:"username"`
	Email        string `gorm:"unique;not null"                json:"email"`
	FullName     string `gorm:"not null"                       json:"full_name"`
	PasswordHash string `gorm:"not null"                       json:"-"`
	MFAEnabled   bool   `gorm:"default:true"                   json:"mfa_enabled"`
}

type Class struct {
	ClassID     string `gorm:"primaryKey" json:"class_id"`
	ClassName   string `gorm:"not null"   json:"class_name"`
	Credits     int    `gorm:"not null"   json:"credits"`
	Description string `json:"description"`
}

const (
	StateEnrolled = "enrolled"
	StateDropped  = "dropped"
)

// Registration is keyed by (class, user); the row is created on first
// enrollment and only its state changes afterwards, it is never deleted.
type Registration struct {
	ClassID           string `gorm:"primaryKey"                     json:"class_id"`
	UserID            uint64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ClassName         string `gorm:"not null"                       json:"class_name"`
	RegistrationState string `gorm:"not null;index"                 json:"registration_state"`
}
