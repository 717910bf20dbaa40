package common

import (
	"math/rand"
	"sync"
	"time"
)

// BackOffConfig bounds a randomized exponential backoff.
type BackOffConfig struct {
	// MaxRetries is how many delays NextBackOff hands out. Zero disables
	// retries.
	MaxRetries int
	// Interval is the slot time the exponent multiplies.
	Interval time.Duration
	MinDelay time.Duration
	MaxDelay time.Duration
}

type BackOff interface {
	NextBackOff() (time.Duration, bool)
}

type backoff struct {
	cfg      BackOffConfig
	rand     *rand.Rand
	attempts int
}

func NewBackOff(cfg BackOffConfig) BackOff {
	if cfg.MaxDelay != 0 && cfg.MinDelay > cfg.MaxDelay {
		panic("invalid max min delay")
	}
	return &backoff{
		cfg:  cfg,
		rand: rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())}),
	}
}

// NextBackOff returns a delay in [MinDelay, MaxDelay] drawn from
// (2^attempt - 1) slots, and false once MaxRetries delays were handed out.
func (b *backoff) NextBackOff() (time.Duration, bool) {
	if b.attempts >= b.cfg.MaxRetries {
		return 0, false
	}
	b.attempts++

	// https://en.wikipedia.org/wiki/Exponential_backoff
	window := b.cfg.Interval
	for i := 1; i < b.attempts && window < time.Hour; i++ {
		window *= 2
	}
	if b.cfg.MaxDelay != 0 && window > b.cfg.MaxDelay-b.cfg.MinDelay {
		window = b.cfg.MaxDelay - b.cfg.MinDelay
	}

	var delay time.Duration
	if window > 0 {
		delay = time.Duration(b.rand.Int63n(int64(window)))
	}
	return delay + b.cfg.MinDelay, true
}

type lockedSource struct {
	lk  sync.Mutex
	src rand.Source
}

func (r *lockedSource) Int63() (n int64) {
	r.lk.Lock()
	n = r.src.Int63()
	r.lk.Unlock()
	return
}

func (r *lockedSource) Seed(seed int64) {
	r.lk.Lock()
	r.src.Seed(seed)
	r.lk.Unlock()
}
