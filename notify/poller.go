// Package notify keeps a per-session view of the admin's notifications fresh
// by polling the backend on a fixed interval.
package notify

import (
	"context"
	"sync"
	"time"

	"camping-admin/backend"
	"camping-admin/mapper"
	"camping-admin/middleware"
	"camping-admin/models"

	"go.uber.org/zap"
)

const DefaultInterval = 10 * time.Second

type API interface {
	ListNotifikasi(ctx context.Context) ([]models.Notifikasi, error)
	MarkNotifikasiRead(ctx context.Context, id int) (*models.Notifikasi, error)
}

// Publisher receives notifications the poller sees unread for the first time.
type Publisher interface {
	PublishNotificationEvent(ctx context.Context, evt models.NotificationEvent) error
}

type Snapshot struct {
	Items     []models.Notification `json:"items"`
	Unread    int                   `json:"unreadCount"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Error     string                `json:"error,omitempty"`
}

type Poller struct {
	api            API
	interval       time.Duration
	publisher      Publisher
	onUnauthorized func()
	logger         *zap.Logger

	mu       sync.RWMutex
	seq      uint64
	snapshot Snapshot
	seen     map[int]struct{}
	primed   bool
}

func NewPoller(api API, interval time.Duration, publisher Publisher, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		api:       api,
		interval:  interval,
		publisher: publisher,
		logger:    logger,
		seen:      make(map[int]struct{}),
	}
}

// OnUnauthorized sets fn to run when the backend rejects the session token.
func (p *Poller) OnUnauthorized(fn func()) *Poller {
	p.onUnauthorized = fn
	return p
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	err := p.Poll(ctx)
	if err == nil || ctx.Err() != nil {
		return
	}
	p.logger.Warn("Notification poll failed", zap.Error(err))
	if backend.IsUnauthorized(err) && p.onUnauthorized != nil {
		p.onUnauthorized()
	}
}

// Poll fetches the list once. The unread count is derived from the same
// list so the two never disagree. A result overtaken by a later poll is
// dropped.
func (p *Poller) Poll(ctx context.Context) error {
	p.mu.Lock()
	p.seq++
	n := p.seq
	p.mu.Unlock()

	list, err := p.api.ListNotifikasi(ctx)
	middleware.RecordNotificationPoll(err == nil)

	p.mu.Lock()
	if n != p.seq {
		p.mu.Unlock()
		return nil
	}
	if err != nil {
		p.snapshot.Error = backend.Message(err, "Gagal memuat notifikasi")
		p.mu.Unlock()
		return err
	}

	items := make([]models.Notification, 0, len(list))
	unread := 0
	var fresh []models.Notifikasi
	for _, raw := range list {
		items = append(items, mapper.Notification(raw))
		if raw.Dibaca {
			continue
		}
		unread++
		if _, ok := p.seen[raw.ID]; !ok {
			p.seen[raw.ID] = struct{}{}
			if p.primed {
				fresh = append(fresh, raw)
			}
		}
	}
	p.primed = true
	p.snapshot = Snapshot{Items: items, Unread: unread, UpdatedAt: time.Now()}
	p.mu.Unlock()

	p.publish(ctx, fresh)
	return nil
}

func (p *Poller) publish(ctx context.Context, fresh []models.Notifikasi) {
	if p.publisher == nil {
		return
	}
	for _, n := range fresh {
		evt := models.NotificationEvent{
			NotificationID: n.ID,
			RentalID:       n.PenyewaanID,
			AdminID:        n.AdminID,
			Message:        n.Pesan,
			CreatedAt:      n.CreatedAt,
			EventType:      "notification_received",
		}
		if err := p.publisher.PublishNotificationEvent(ctx, evt); err != nil {
			p.logger.Error("Failed to publish notification event",
				zap.Int("notification_id", n.ID),
				zap.Error(err),
			)
		}
	}
}

// MarkRead flags one notification as read and re-polls right away.
func (p *Poller) MarkRead(ctx context.Context, id int) error {
	if _, err := p.api.MarkNotifikasiRead(ctx, id); err != nil {
		return err
	}
	return p.Poll(ctx)
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.snapshot
	s.Items = make([]models.Notification, len(p.snapshot.Items))
	copy(s.Items, p.snapshot.Items)
	return s
}
