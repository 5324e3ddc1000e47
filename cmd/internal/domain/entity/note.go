package entity

type Note struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"not null;index"`
	CategoryID *int64 `gorm:"index"` // References: categories(id), nulled when the category goes away
	Title      string `gorm:"not null;size:255"`
	Content    string `gorm:"not null"`
	CreatedAt  int64  `gorm:"not null"`
	UpdatedAt  int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	User     *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (n *Note) OwnerID() int64 {
	return n.UserID
}
