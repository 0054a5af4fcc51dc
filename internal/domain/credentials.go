package domain

// corruptedToken — строка, которую оставляет в хранилище браузера повреждённая
// сессия (сериализованный undefined). Такой токен считается отсутствующим.
const corruptedToken = "undefined"

// Credentials хранит пару токенов текущей сессии покупателя.
type Credentials struct {
	// AccessToken — короткоживущий bearer-токен, прикладывается к каждому запросу.
	AccessToken string
	// RefreshToken — долгоживущий токен обмена; ротируется при каждом использовании.
	RefreshToken string
}

// Valid сообщает, можно ли аутентифицировать запрос этим access-токеном.
func (c Credentials) Valid() bool {
	return c.AccessToken != "" && c.AccessToken != corruptedToken
}

// CanRotate сообщает, есть ли пригодный refresh-токен для ротации.
func (c Credentials) CanRotate() bool {
	return c.RefreshToken != "" && c.RefreshToken != corruptedToken
}

// User — профиль аутентифицированного покупателя.
type User struct {
	ID    string
	Email string
	Name  string
	Phone string
}
