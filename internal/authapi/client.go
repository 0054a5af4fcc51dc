package authapi

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/credentials"
	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

// Gateway — срез конвейера, нужный авторизационным вызовам.
type Gateway interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Client инкапсулирует вызовы аутентификации витрины: логин, регистрация,
// выход. После успешного ответа пара токенов и профиль сохраняются в
// хранилище учётных данных.
type Client struct {
	api    Gateway
	creds  *credentials.Store
	logger *log.Entry
}

// New создаёт клиент аутентификации.
func New(api Gateway, creds *credentials.Store, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "authapi")
	}
	return &Client{api: api, creds: creds, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest — данные формы регистрации.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type tokenPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *userPayload `json:"user"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (p *userPayload) toDomain() *domain.User {
	if p == nil {
		return nil
	}
	return &domain.User{ID: p.ID, Email: p.Email, Name: p.Name, Phone: p.Phone}
}

// Login обменивает email и пароль на пару токенов и профиль.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var payload tokenPayload
	if err := c.api.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &payload); err != nil {
		return nil, err
	}

	user := payload.User.toDomain()
	c.creds.Set(domain.Credentials{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}, user)
	c.logger.WithField("email", email).Info("вход выполнен")
	return user, nil
}

// Register создаёт аккаунт и сразу открывает сессию.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var payload tokenPayload
	if err := c.api.Post(ctx, "/auth/register", req, &payload); err != nil {
		return nil, err
	}

	user := payload.User.toDomain()
	c.creds.Set(domain.Credentials{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}, user)
	c.logger.WithField("email", req.Email).Info("аккаунт создан")
	return user, nil
}

// Logout завершает сессию. Сетевой вызов выполняется по возможности: даже
// если сервер недоступен, локальные учётные данные очищаются всегда.
func (c *Client) Logout(ctx context.Context) {
	if c.creds.Authenticated() {
		if err := c.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
			c.logger.WithError(err).Warn("серверный выход не удался, очищаем локально")
		}
	}
	c.creds.Clear()
}
