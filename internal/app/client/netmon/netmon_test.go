package netmon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

type fakeProber struct {
	mu  sync.Mutex
	err error
}

func (f *fakeProber) Probe(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeProber) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func newMonitor(p Prober) *PollMonitor {
	return NewPollMonitor(p, time.Second, time.Second, slog.Default())
}

func TestPollMonitor_InitialStateOffline(t *testing.T) {
	m := newMonitor(&fakeProber{})
	assert.False(t, m.IsReachable())
}

func TestPollMonitor_ProbeOnce(t *testing.T) {
	p := &fakeProber{}
	m := newMonitor(p)

	assert.True(t, m.ProbeOnce(context.Background()))
	assert.True(t, m.IsReachable())

	p.setErr(errors.New("connection refused"))
	assert.False(t, m.ProbeOnce(context.Background()))
	assert.False(t, m.IsReachable())
}

func TestPollMonitor_SubscribeOnTransitionsOnly(t *testing.T) {
	p := &fakeProber{}
	m := newMonitor(p)

	var calls []bool
	m.Subscribe(func(online bool) {
		calls = append(calls, online)
	})

	m.ProbeOnce(context.Background()) // offline -> online
	m.ProbeOnce(context.Background()) // online -> online: не уведомляет
	p.setErr(errors.New("down"))
	m.ProbeOnce(context.Background()) // online -> offline
	m.ProbeOnce(context.Background()) // offline -> offline: не уведомляет

	assert.Equal(t, []bool{true, false}, calls)
}

func TestPollMonitor_Unsubscribe(t *testing.T) {
	p := &fakeProber{}
	m := newMonitor(p)

	calls := 0
	unsubscribe := m.Subscribe(func(bool) { calls++ })
	unsubscribe()

	m.ProbeOnce(context.Background())
	assert.Zero(t, calls)
}

func TestPollMonitor_SetReachable_Forces(t *testing.T) {
	p := &fakeProber{}
	m := newMonitor(p)

	m.SetReachable(false)
	assert.False(t, m.IsReachable())

	// После принудительной установки опрос состояние не меняет
	assert.False(t, m.ProbeOnce(context.Background()))
	assert.False(t, m.IsReachable())
}

func TestPollMonitor_SetReachable_Notifies(t *testing.T) {
	m := newMonitor(&fakeProber{err: errors.New("down")})

	var calls []bool
	m.Subscribe(func(online bool) { calls = append(calls, online) })

	m.SetReachable(true)
	m.SetReachable(true) // без смены состояния уведомления нет
	m.SetReachable(false)

	assert.Equal(t, []bool{true, false}, calls)
}
