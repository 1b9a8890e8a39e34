package service

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"github.com/xela07ax/crm-backend/internal/domain"
)

// ReliableUserProvider оборачивает хранилище пользователей в Circuit Breaker.
// Ретраев внутри запроса нет — неудачный вызов терминален, предохранитель
// лишь защищает базу от шторма запросов при деградации.
type ReliableUserProvider struct {
	next UserProvider
	cb   *gobreaker.CircuitBreaker
}

func NewReliableUserProvider(next UserProvider) *ReliableUserProvider {
	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "crm-user-store",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся (блокируем трафик)
			return counts.ConsecutiveFailures > 5
		},
	})

	return &ReliableUserProvider{next: next, cb: cb}
}

// FindByEmail транслирует и открытый предохранитель, и ошибку базы
// в единый инфраструктурный отказ ErrUserStoreUnavailable.
func (p *ReliableUserProvider) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.next.FindByEmail(ctx, email)
	})
	if err != nil {
		return nil, domain.ErrUserStoreUnavailable
	}

	user, _ := res.(*domain.User)
	return user, nil
}
