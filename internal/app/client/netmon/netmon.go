package netmon

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Monitor наблюдает за доступностью сервера и уведомляет подписчиков
// о переходах. Повторяющиеся одинаковые состояния подписчикам не доставляются.
type Monitor interface {
	IsReachable() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// Prober — единичная проверка доступности сервера
type Prober interface {
	Probe(ctx context.Context) error
}

// PollMonitor периодически опрашивает сервер через Prober.
// Начальное состояние определяется первым опросом в Run; до него монитор
// считает сервер недоступным.
type PollMonitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	online bool
	forced bool
	subs   map[int]func(bool)
	nextID int
}

func NewPollMonitor(prober Prober, interval, timeout time.Duration, log *slog.Logger) *PollMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &PollMonitor{
		prober:   prober,
		interval: interval,
		timeout:  timeout,
		log:      log.With("component", "network_monitor"),
		subs:     make(map[int]func(bool)),
	}
}

func (m *PollMonitor) IsReachable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe регистрирует подписчика; возвращает функцию отписки.
// Подписчик вызывается только при смене состояния.
func (m *PollMonitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SetReachable выставляет состояние напрямую, минуя опрос.
// Используется в режиме принудительного офлайна и в тестах;
// после вызова периодический опрос больше не меняет состояние.
func (m *PollMonitor) SetReachable(online bool) {
	m.mu.Lock()
	m.forced = true
	m.mu.Unlock()

	m.transition(online)
}

// ProbeOnce выполняет единичную проверку и обновляет состояние.
// Применяется при старте процесса, чтобы получить холодное значение
// до запуска цикла опроса.
func (m *PollMonitor) ProbeOnce(ctx context.Context) bool {
	m.mu.Lock()
	forced := m.forced
	m.mu.Unlock()
	if forced {
		return m.IsReachable()
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	online := m.prober.Probe(probeCtx) == nil
	m.transition(online)
	return online
}

// Run запускает цикл опроса до отмены контекста
func (m *PollMonitor) Run(ctx context.Context) {
	m.ProbeOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ProbeOnce(ctx)
		}
	}
}

func (m *PollMonitor) transition(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.log.Info("reachability changed", "online", online)

	for _, fn := range subs {
		fn(online)
	}
}
