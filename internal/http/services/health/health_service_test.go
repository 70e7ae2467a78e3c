package health

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pinger struct {
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (p *pinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return p.err
}

func TestCheck_StoreDownIsUnavailable(t *testing.T) {
	svc := NewHealthService(Deps{
		Checks:     map[string]Pinger{"store": &pinger{err: errors.New("down")}, "redis": &pinger{}},
		SigningKID: "k1",
	})
	res := svc.Check(context.Background())
	assert.Equal(t, "unavailable", res.Status)
	assert.Equal(t, "down", res.Components["store"])
	assert.Equal(t, "up", res.Components["redis"])
	assert.Equal(t, "k1", res.SigningKID)
}

func TestCheck_OptionalDownStillReady(t *testing.T) {
	svc := NewHealthService(Deps{
		Checks: map[string]Pinger{"store": &pinger{}, "redis": &pinger{err: errors.New("down")}},
	})
	res := svc.Check(context.Background())
	assert.Equal(t, "ready", res.Status)
	assert.Equal(t, "down", res.Components["redis"])
}

func TestCheck_ConcurrentChecksShareOnePing(t *testing.T) {
	store := &pinger{delay: 100 * time.Millisecond}
	svc := NewHealthService(Deps{Checks: map[string]Pinger{"store": store}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "ready", svc.Check(context.Background()).Status)
		}()
	}
	wg.Wait()
	assert.Less(t, store.calls.Load(), int32(8))
}

func TestCheck_Timeout(t *testing.T) {
	svc := NewHealthService(Deps{
		Checks:  map[string]Pinger{"store": &pinger{delay: time.Second}},
		Timeout: 20 * time.Millisecond,
	})
	assert.Equal(t, "unavailable", svc.Check(context.Background()).Status)
}
