// internal/configstore/store.go
package configstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chedoparti/clubsched/internal/pricing"
	"github.com/chedoparti/clubsched/internal/schedule"
)

const (
	scheduleKey = "institution_schedule"
	pricingKey  = "pricing_config"
)

// Store is the configuration repository capability handed to the engines and
// handlers. Reads return seeded defaults when nothing has been written yet;
// writes replace the whole blob. Schedule subscribers run after every
// successful SaveSchedule.
type Store interface {
	LoadSchedule(ctx context.Context) (schedule.InstitutionSchedule, error)
	SaveSchedule(ctx context.Context, s schedule.InstitutionSchedule) error
	LoadPricing(ctx context.Context) (pricing.Config, error)
	SavePricing(ctx context.Context, c pricing.Config) error
	OnScheduleChanged(fn func(schedule.InstitutionSchedule)) (unsubscribe func())
	Close() error
}

// blobAccess is the per-driver keyed blob primitive both store implementations
// are built on.
type blobAccess interface {
	getBlob(ctx context.Context, key string) (data []byte, found bool, err error)
	setBlob(ctx context.Context, key string, data []byte) error
}

// loadScheduleBlob reads, decodes, and normalizes the stored schedule. When
// decoding migrated a legacy-shaped day the normalized form is written back
// so the migration happens exactly once.
func loadScheduleBlob(ctx context.Context, b blobAccess) (schedule.InstitutionSchedule, error) {
	data, found, err := b.getBlob(ctx, scheduleKey)
	if err != nil {
		return schedule.InstitutionSchedule{}, fmt.Errorf("load schedule: %w", err)
	}

	sched := DefaultSchedule()
	if found {
		if err := json.Unmarshal(data, &sched); err != nil {
			return schedule.InstitutionSchedule{}, fmt.Errorf("decode schedule: %w", err)
		}
	}

	normalized, changed := schedule.Normalize(sched)
	if changed {
		blob, err := json.Marshal(normalized)
		if err != nil {
			return schedule.InstitutionSchedule{}, fmt.Errorf("encode migrated schedule: %w", err)
		}
		if err := b.setBlob(ctx, scheduleKey, blob); err != nil {
			return schedule.InstitutionSchedule{}, fmt.Errorf("persist migrated schedule: %w", err)
		}
		log.Ctx(ctx).Info().Msg("Migrated legacy schedule format")
	}
	return normalized, nil
}

func saveScheduleBlob(ctx context.Context, b blobAccess, s schedule.InstitutionSchedule) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := b.setBlob(ctx, scheduleKey, data); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

func loadPricingBlob(ctx context.Context, b blobAccess) (pricing.Config, error) {
	data, found, err := b.getBlob(ctx, pricingKey)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("load pricing: %w", err)
	}
	if !found {
		return DefaultPricing(), nil
	}
	var cfg pricing.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return pricing.Config{}, fmt.Errorf("decode pricing: %w", err)
	}
	return cfg, nil
}

func savePricingBlob(ctx context.Context, b blobAccess, c pricing.Config) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode pricing: %w", err)
	}
	if err := b.setBlob(ctx, pricingKey, data); err != nil {
		return fmt.Errorf("save pricing: %w", err)
	}
	return nil
}

// notifier fans a saved schedule out to subscribers. Callbacks run outside the
// lock so a subscriber may unsubscribe itself.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(schedule.InstitutionSchedule)
}

func (n *notifier) subscribe(fn func(schedule.InstitutionSchedule)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(schedule.InstitutionSchedule))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify(s schedule.InstitutionSchedule) {
	n.mu.Lock()
	callbacks := make([]func(schedule.InstitutionSchedule), 0, len(n.subs))
	for _, fn := range n.subs {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn(s)
	}
}
