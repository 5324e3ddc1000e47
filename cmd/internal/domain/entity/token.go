package entity

// BlacklistedToken marks a JWT (by its "jti") as revoked until it expires on its own.
type BlacklistedToken struct {
	JTI       string `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64  `gorm:"not null;index"`
	TokenType string `gorm:"not null"`
	ExpiresAt int64  `gorm:"not null;index"`
	CreatedAt int64  `gorm:"not null"`
}
