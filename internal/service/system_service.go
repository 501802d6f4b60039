package service

import (
	"context"
	"sync"
	"time"

	"riskguard/internal/models"
)

// ConfigCacheTTL - время жизни кешированной конфигурации.
//
// Конфигурация читается в начале каждого риск-цикла; кеш гасит
// нагрузку на хранилище, но даёт остановке торговли вступить в силу
// не позднее чем через TTL. Выключение через этот сервис сбрасывает
// кеш и действует немедленно.
const ConfigCacheTTL = 15 * time.Second

// SystemService управляет глобальной конфигурацией торговли
// с кешированием чтений
type SystemService struct {
	repo SystemConfigRepositoryInterface

	mu       sync.RWMutex
	cached   *models.SystemConfiguration
	cachedAt time.Time

	// источник времени, в тестах подменяется
	now func() time.Time
}

// NewSystemService создает новый экземпляр сервиса
func NewSystemService(repo SystemConfigRepositoryInterface) *SystemService {
	return &SystemService{
		repo: repo,
		now:  time.Now,
	}
}

// Get возвращает конфигурацию системы, не старше ConfigCacheTTL.
//
// Если хранилище недоступно при обновлении, отдаётся последняя
// успешно прочитанная конфигурация: сбой чтения не должен
// останавливать риск-цикл. Ошибка возвращается только когда
// конфигурация не читалась ни разу.
func (s *SystemService) Get(ctx context.Context) (*models.SystemConfiguration, error) {
	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.cachedAt) < ConfigCacheTTL {
		cfg := *s.cached
		s.mu.RUnlock()
		return &cfg, nil
	}
	s.mu.RUnlock()

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.cached != nil {
			stale := *s.cached
			return &stale, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cached = cfg
	s.cachedAt = s.now()
	s.mu.Unlock()

	copied := *cfg
	return &copied, nil
}

// SetTradingEnabled переключает рубильник торговли и сбрасывает кеш
func (s *SystemService) SetTradingEnabled(ctx context.Context, enabled bool) error {
	if err := s.repo.SetTradingEnabled(ctx, enabled); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// DisableTrading выключает торговлю (kill switch guardrail'а)
func (s *SystemService) DisableTrading(ctx context.Context) error {
	return s.SetTradingEnabled(ctx, false)
}

// Invalidate сбрасывает кеш: следующее чтение пойдёт в хранилище
func (s *SystemService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
