package credentials

import (
	"sync"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

// Store — единственное на процесс хранилище учётных данных сессии.
// Передаётся зависимостям явно, а не через глобальное состояние, чтобы
// семантику координатора ротации можно было тестировать изолированно.
type Store struct {
	mu    sync.RWMutex
	creds domain.Credentials
	user  *domain.User
}

// NewStore возвращает пустое хранилище (состояние «не аутентифицирован»).
func NewStore() *Store {
	return &Store{}
}

// Set заменяет пару токенов и профиль целиком. Ротация инвалидирует старый
// refresh-токен на сервере, поэтому сохраняется всегда новая пара.
func (s *Store) Set(creds domain.Credentials, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	if user != nil {
		// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
		dup := *user
		s.user = &dup
	}
}

// Credentials возвращает текущую пару токенов.
func (s *Store) Credentials() domain.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// User возвращает профиль покупателя или nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	dup := *s.user
	return &dup
}

// Authenticated сообщает, есть ли пригодный access-токен.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Valid()
}

// Clear уничтожает сессию: выход или невосстановимая ошибка ротации.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = domain.Credentials{}
	s.user = nil
}
