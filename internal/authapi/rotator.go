package authapi

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/gateway"
)

// TokenRotator выполняет сетевую ротацию refresh-токена для координатора.
// Работает напрямую через транспорт, минуя конвейер: вызов ротации не должен
// сам попадать в обработку 401, иначе получится рекурсия.
type TokenRotator struct {
	transport gateway.Doer
	logger    *log.Entry
}

// NewTokenRotator создаёт ротатор поверх одиночного транспорта.
func NewTokenRotator(transport gateway.Doer, logger *log.Entry) *TokenRotator {
	if logger == nil {
		logger = log.New().WithField("component", "rotator")
	}
	return &TokenRotator{transport: transport, logger: logger}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Rotate обменивает refresh-токен на новую пару. Если сервер не прислал
// новый refresh-токен, прежний остаётся действующим и сохраняется в паре.
func (r *TokenRotator) Rotate(ctx context.Context, refreshToken string) (domain.Credentials, *domain.User, error) {
	resp, err := r.transport.Do(ctx, gateway.Request{
		Method: "POST",
		Path:   "/auth/refresh",
		Body:   refreshRequest{RefreshToken: refreshToken},
	})
	if err != nil {
		return domain.Credentials{}, nil, fmt.Errorf("refresh call: %w", err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return domain.Credentials{}, nil, fmt.Errorf("refresh rejected: status %d", resp.Status)
	}

	var payload tokenPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return domain.Credentials{}, nil, fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return domain.Credentials{}, nil, fmt.Errorf("refresh response without access token")
	}

	rotated := domain.Credentials{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}
	if rotated.RefreshToken == "" {
		rotated.RefreshToken = refreshToken
	}
	return rotated, payload.User.toDomain(), nil
}

var _ gateway.Rotator = (*TokenRotator)(nil)
