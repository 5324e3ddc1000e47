package entity

type Category struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;index"`
	Name      string `gorm:"not null;size:100"`
	Theme     Theme  `gorm:"column:theme_id;not null;size:20"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`

	// NotesCount is filled in by the repository on reads, it is never persisted.
	NotesCount int64 `gorm:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (c *Category) OwnerID() int64 {
	return c.UserID
}

type defaultCategory struct {
	Name  string
	Theme Theme
}

// DefaultCategories are provisioned for every new account.
var DefaultCategories = []defaultCategory{
	{Name: "Random Thoughts", Theme: ThemeOrange},
	{Name: "School", Theme: ThemeYellow},
	{Name: "Personal", Theme: ThemeTeal},
}

// NewDefaultCategories builds unsaved copies of DefaultCategories stamped with 'now'.
// The owner is assigned when the account is persisted.
func NewDefaultCategories(now int64) []*Category {
	cats := make([]*Category, len(DefaultCategories))
	for i, def := range DefaultCategories {
		cats[i] = &Category{
			Name:      def.Name,
			Theme:     def.Theme,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return cats
}
