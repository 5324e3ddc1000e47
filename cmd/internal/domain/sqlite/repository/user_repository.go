package repository

import (
	"errors"

	"notetaker/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id int64) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// CreateWithCategories persists a new user together with its starter categories.
// It returns ErrEmailTaken when the email is already in use.
func (u *DefaultUserRepository) CreateWithCategories(user *entity.User, categories []*entity.Category) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Create(user).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}

		if err != nil {
			return err
		}

		if len(categories) == 0 {
			return nil
		}

		for _, c := range categories {
			c.UserID = user.ID
		}
		return tx.Omit(clause.Associations).Create(&categories).Error
	})
}

// Delete removes the user and everything it owns.
func (u *DefaultUserRepository) Delete(user *entity.User) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(OwnedBy(notesTable, user.ID)).Delete(&entity.Note{}).Error; err != nil {
			return err
		}

		if err := tx.Scopes(OwnedBy(categoriesTable, user.ID)).Delete(&entity.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.User{}, user.ID).Error
	})
}
