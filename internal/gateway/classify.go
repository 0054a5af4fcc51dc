package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

// apiError — структура тела ошибки, которую возвращает API магазина.
type apiError struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// classify переводит сырой результат транспорта в классифицированный отказ;
// nil означает успех. Отмена вызывающим отличается от сетевой ошибки:
// «отменено» нельзя трактовать как «сломалось».
func classify(ctx context.Context, resp *Response, err error) *domain.Classified {
	if err != nil {
		if ctx.Err() != nil {
			return domain.NewFailure(domain.FailureCanceled, "", ctx.Err())
		}
		// Таймаут, connection refused, DNS — всё это кандидаты на повтор.
		return domain.NewFailure(domain.FailureTransient, "", err)
	}

	switch {
	case resp.Status < http.StatusBadRequest:
		return nil
	case resp.Status == http.StatusUnauthorized:
		return &domain.Classified{Kind: domain.FailureAuthExpired, Status: resp.Status}
	case resp.Status == http.StatusInternalServerError || resp.Status == http.StatusServiceUnavailable:
		return &domain.Classified{Kind: domain.FailureTransient, Status: resp.Status}
	default:
		failure := &domain.Classified{Kind: domain.FailureValidation, Status: resp.Status}
		var body apiError
		if jsonErr := json.Unmarshal(resp.Body, &body); jsonErr == nil {
			failure.Message = body.Message
			failure.Fields = body.Errors
		}
		return failure
	}
}
