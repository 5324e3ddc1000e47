package entity

// User is an account. The email is the login key and is stored lower-cased.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"not null;uniqueIndex"`
	Username     string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}
