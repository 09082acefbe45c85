package data

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrNotAssociated   = errors.New("movie is not in the user's list")
)

// Models 聚合所有数据模型，由 main 构造一次后注入
type Models struct {
	Users   UserModel
	Movies  MovieModel
	Library LibraryModel
	Reviews ReviewModel
}

func NewModels(db *gorm.DB) Models {
	return Models{
		Users:   UserModel{DB: db},
		Movies:  MovieModel{DB: db},
		Library: LibraryModel{DB: db},
		Reviews: ReviewModel{DB: db},
	}
}

// Migrate 根据实体定义创建或更新表结构
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&User{}, &Movie{}, &UserMovie{}, &Review{})
	if err != nil {
		return err
	}

	// 旧库新增的小写列为空，逐行补齐
	var movies []*Movie
	err = db.Where("title_folded = '' OR title_folded IS NULL").Find(&movies).Error
	if err != nil {
		return err
	}

	for _, movie := range movies {
		movie.fold()
		err = db.Model(movie).Select("title_folded", "director_folded").Updates(movie).Error
		if err != nil {
			return err
		}
	}

	return nil
}
