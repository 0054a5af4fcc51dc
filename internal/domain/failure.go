package domain

import "errors"

// FailureKind — классификация отказов шлюза для выбора стратегии обработки.
type FailureKind string

const (
	// FailureAuthExpired — 401; разрешается ротацией токена, вызывающий код
	// видит её только если ротация сама провалилась.
	FailureAuthExpired FailureKind = "auth_expired"
	// FailureTransient — сеть/таймаут/5xx; разрешается повторами с backoff.
	FailureTransient FailureKind = "transient"
	// FailureValidation — 4xx со структурированными ошибками полей; не повторяется.
	FailureValidation FailureKind = "validation"
	// FailurePrecondition — нарушение клиентского инварианта; до сети не доходит.
	FailurePrecondition FailureKind = "precondition"
	// FailureSession — refresh-токен отсутствует/ротация провалилась; принудительный выход.
	FailureSession FailureKind = "session"
	// FailureCanceled — запрос отменён вызывающим; не путать с сетевой ошибкой.
	FailureCanceled FailureKind = "canceled"
)

// Classified — терминальный отказ с машинной классификацией и человекочитаемым
// сообщением для UI-слоя.
type Classified struct {
	Kind    FailureKind
	Message string
	// Status — HTTP-статус ответа, если отказ пришёл от сервера.
	Status int
	// Fields — ошибки валидации по полям, если сервер их вернул.
	Fields map[string]string
	Err    error
}

func (c *Classified) Error() string {
	if c.Message != "" {
		return c.Message
	}
	if c.Err != nil {
		return c.Err.Error()
	}
	return string(c.Kind)
}

func (c *Classified) Unwrap() error { return c.Err }

// NewFailure создаёт классифицированный отказ.
func NewFailure(kind FailureKind, message string, err error) *Classified {
	return &Classified{Kind: kind, Message: message, Err: err}
}

// KindOf извлекает классификацию из цепочки ошибок; для неклассифицированных
// ошибок возвращает FailureTransient только при явных сетевых признаках выше
// по стеку, иначе пустую строку.
func KindOf(err error) FailureKind {
	var c *Classified
	if errors.As(err, &c) {
		return c.Kind
	}
	return ""
}

// FieldsOf возвращает ошибки полей из цепочки, если они есть.
func FieldsOf(err error) map[string]string {
	var c *Classified
	if errors.As(err, &c) {
		return c.Fields
	}
	return nil
}
