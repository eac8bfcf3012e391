package repository

import (
	"context"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

type UserRepository interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type apiUserRepo struct{ client *client.Client }

func NewUserRepository(c *client.Client) UserRepository {
	return &apiUserRepo{client: c}
}

func (r *apiUserRepo) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	resp, err := r.client.Register(ctx, dto.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	user := toUser(*resp)
	return &user, nil
}

func (r *apiUserRepo) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	resp, err := r.client.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", nil, err
	}
	user := toUser(resp.User)
	if user.Email == "" {
		user.Email = email
	}
	return resp.Token, &user, nil
}

func toUser(u dto.UserResponse) model.User {
	role := model.Role(u.Role)
	if role == "" {
		role = model.RoleUser
	}
	return model.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: role}
}
