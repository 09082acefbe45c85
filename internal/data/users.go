package data

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:80;not null;uniqueIndex"`
	CreatedAt time.Time `json:"-"`

	Library []UserMovie `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Reviews []Review    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type UserModel struct {
	DB *gorm.DB
}

// Insert 新增用户，名称重复时返回 ErrDuplicateRecord
func (m UserModel) Insert(ctx context.Context, user *User) error {
	var count int64
	err := m.DB.WithContext(ctx).Model(&User{}).Where("name = ?", user.Name).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRecord
	}

	return translate(m.DB.WithContext(ctx).Create(user).Error)
}

func (m UserModel) Get(ctx context.Context, id int64) (*User, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var user User
	err := m.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// GetAll 按插入顺序返回全部用户
func (m UserModel) GetAll(ctx context.Context) ([]*User, error) {
	users := []*User{}
	err := m.DB.WithContext(ctx).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Delete 删除用户及其影评和片单关联，电影本身保留
func (m UserModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&Review{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&UserMovie{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		return nil
	})
}

// userExists 在给定的事务内检查用户是否存在
func userExists(tx *gorm.DB, id int64) error {
	var user User
	err := tx.Select("id").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}

	return err
}
