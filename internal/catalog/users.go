package catalog

import (
	"context"
	"strings"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/validator"
)

const (
	nameMinChars = 3
	nameMaxChars = 80
)

func ValidateUserName(v *validator.Validator, name string) {
	v.Check(validator.NotBlank(name), "name", "must be provided")
	v.Check(validator.MinChars(name, nameMinChars), "name", "must be at least 3 characters long")
	v.Check(validator.MaxChars(name, nameMaxChars), "name", "must not be more than 80 characters long")
}

// CreateUser 创建用户，名称需唯一且至少 3 个字符
func (c *Catalog) CreateUser(ctx context.Context, name string) (*data.User, error) {
	name = strings.TrimSpace(name)

	v := validator.New()
	if ValidateUserName(v, name); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	user := &data.User{Name: name}
	err := c.models.Users.Insert(ctx, user)
	if err != nil {
		return nil, classify("create user", err)
	}

	c.logger.Info("user created", "user_id", user.ID, "name", user.Name)
	return user, nil
}

func (c *Catalog) ListUsers(ctx context.Context) ([]*data.User, error) {
	users, err := c.models.Users.GetAll(ctx)
	return users, classify("list users", err)
}

func (c *Catalog) GetUser(ctx context.Context, id int64) (*data.User, error) {
	user, err := c.models.Users.Get(ctx, id)
	return user, classify("get user", err)
}

// DeleteUser 删除用户及其影评，片单关联一并移除，电影保留
func (c *Catalog) DeleteUser(ctx context.Context, id int64) error {
	err := c.models.Users.Delete(ctx, id)
	if err != nil {
		return classify("delete user", err)
	}

	c.logger.Info("user deleted", "user_id", id)
	return nil
}
