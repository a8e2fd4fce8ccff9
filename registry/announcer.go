package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/foundrykit/foundrykit/core"
)

// Announcement is the Redis-visible descriptor of one hub registration.
// Component values never leave the process; only the descriptor does.
type Announcement struct {
	InstanceID string            `json:"instance_id"`
	Service    string            `json:"service"`
	Namespace  string            `json:"namespace"`
	Dimension  string            `json:"dimension"`
	Name       string            `json:"name"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	LastSeen   time.Time         `json:"last_seen"`
}

// Announcer mirrors hub registration descriptors into Redis with a TTL
// so other processes can discover which components a peer carries.
// Announcements expire unless refreshed; Start runs the refresh loop.
type Announcer struct {
	client     *redis.Client
	service    string
	namespace  string
	instanceID string
	ttl        time.Duration
	heartbeat  time.Duration
	logger     core.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAnnouncer connects to Redis using the registry section of cfg.
// The connection is verified with a ping before returning.
func NewAnnouncer(cfg *core.Config, logger core.Logger) (*Announcer, error) {
	if cfg.Registry.RedisURL == "" {
		return nil, &core.FoundationError{
			Op:      "registry.NewAnnouncer",
			Kind:    "registry",
			Message: "redis URL is required for announcement",
			Err:     core.ErrMissingConfiguration,
		}
	}

	opt, err := redis.ParseURL(cfg.Registry.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", core.ErrInvalidConfiguration)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", core.ErrConnectionFailed)
	}

	if logger == nil {
		logger = &core.NoOpLogger{}
	}

	return &Announcer{
		client:     client,
		service:    cfg.ServiceName,
		namespace:  cfg.Namespace,
		instanceID: uuid.NewString(),
		ttl:        cfg.Registry.TTL,
		heartbeat:  cfg.Registry.HeartbeatInterval,
		logger:     logger,
	}, nil
}

// InstanceID returns the identifier under which this process announces
func (a *Announcer) InstanceID() string {
	return a.instanceID
}

func (a *Announcer) key(dimension, name string) string {
	return fmt.Sprintf("%s:announce:%s:%s:%s", a.namespace, dimension, name, a.instanceID)
}

// Announce writes descriptors for every hub registration, across all
// dimensions, in one atomic pipeline.
func (a *Announcer) Announce(ctx context.Context, hub *Hub) error {
	now := time.Now()
	pipe := a.client.TxPipeline()

	count := 0
	for _, dimension := range hub.Dimensions() {
		for _, reg := range hub.List(dimension) {
			ann := Announcement{
				InstanceID: a.instanceID,
				Service:    a.service,
				Namespace:  a.namespace,
				Dimension:  reg.Dimension,
				Name:       reg.Name,
				Metadata:   reg.Metadata,
				LastSeen:   now,
			}
			data, err := json.Marshal(ann)
			if err != nil {
				return fmt.Errorf("failed to marshal announcement for %s/%s: %w", reg.Dimension, reg.Name, err)
			}
			pipe.Set(ctx, a.key(reg.Dimension, reg.Name), data, a.ttl)
			count++
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		a.logger.Error("Failed to announce registrations", map[string]interface{}{
			"error":      err,
			"error_type": fmt.Sprintf("%T", err),
			"service":    a.service,
			"count":      count,
		})
		return fmt.Errorf("failed to announce registrations: %w", err)
	}

	a.logger.Debug("Announced registrations", map[string]interface{}{
		"service":     a.service,
		"instance_id": a.instanceID,
		"count":       count,
		"ttl":         a.ttl.String(),
	})
	return nil
}

// Start announces immediately and then refreshes on the heartbeat
// interval until the context is canceled or Close is called.
func (a *Announcer) Start(ctx context.Context, hub *Hub) error {
	if err := a.Announce(ctx, hub); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(a.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if err := a.Announce(loopCtx, hub); err != nil {
					a.logger.Warn("Announcement refresh failed", map[string]interface{}{
						"error":   err,
						"service": a.service,
					})
				}
			}
		}
	}()

	a.logger.Info("Announcer started", map[string]interface{}{
		"service":     a.service,
		"namespace":   a.namespace,
		"instance_id": a.instanceID,
		"heartbeat":   a.heartbeat.String(),
	})
	return nil
}

// Entries lists live announcements for a dimension across all services
// and instances in this namespace.
func (a *Announcer) Entries(ctx context.Context, dimension string) ([]Announcement, error) {
	pattern := fmt.Sprintf("%s:announce:%s:*", a.namespace, dimension)

	var out []Announcement
	iter := a.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		data, err := a.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read announcement %s: %w", iter.Val(), err)
		}
		var ann Announcement
		if err := json.Unmarshal([]byte(data), &ann); err != nil {
			a.logger.Warn("Skipping malformed announcement", map[string]interface{}{
				"key":   iter.Val(),
				"error": err,
			})
			continue
		}
		out = append(out, ann)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan announcements: %w", err)
	}
	return out, nil
}

// Withdraw removes this instance's announcements for a dimension
func (a *Announcer) Withdraw(ctx context.Context, hub *Hub, dimension string) error {
	pipe := a.client.TxPipeline()
	for _, reg := range hub.List(dimension) {
		pipe.Del(ctx, a.key(reg.Dimension, reg.Name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to withdraw announcements: %w", err)
	}
	return nil
}

// Close stops the refresh loop and releases the Redis connection
func (a *Announcer) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	return a.client.Close()
}
