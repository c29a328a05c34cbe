package dbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/aurora-ide/aurora-notify/internal/model"
)

// ErrNotConnected is returned when signalling before Start.
var ErrNotConnected = errors.New("not connected to D-Bus")

// EmitNotificationClosed emits the NotificationClosed signal.
func (s *Server) EmitNotificationClosed(id string, reason model.CloseReason) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.Emit(Path, Interface+".NotificationClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// ErrSubscriptionClosed is returned by ClosedSubscription.Next once the
// subscription or its connection is gone.
var ErrSubscriptionClosed = errors.New("closed-signal subscription ended")

// ClosedSubscription queues NotificationClosed signals from the moment
// SubscribeClosed returns, so a caller can subscribe, then send, without
// missing a card that closes immediately.
type ClosedSubscription struct {
	ch      chan *dbus.Signal
	cleanup func()
	once    sync.Once
}

func newClosedSubscription(ch chan *dbus.Signal, cleanup func()) *ClosedSubscription {
	return &ClosedSubscription{ch: ch, cleanup: cleanup}
}

// SubscribeClosed registers the match rule and the signal channel before
// returning.
func (c *Client) SubscribeClosed(ctx context.Context) (*ClosedSubscription, error) {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember("NotificationClosed"),
	}

	ch := make(chan *dbus.Signal, 16)
	c.conn.Signal(ch)
	if err := c.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		c.conn.RemoveSignal(ch)
		return nil, fmt.Errorf("failed to subscribe to NotificationClosed: %w", err)
	}

	return newClosedSubscription(ch, func() {
		_ = c.conn.RemoveMatchSignal(opts...)
		c.conn.RemoveSignal(ch)
	}), nil
}

// Next blocks until the next NotificationClosed signal or until ctx is
// cancelled. Other signals on the connection are skipped.
func (s *ClosedSubscription) Next(ctx context.Context) (string, model.CloseReason, error) {
	for {
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		case sig, ok := <-s.ch:
			if !ok {
				return "", 0, ErrSubscriptionClosed
			}
			if id, reason, ok := parseClosed(sig); ok {
				return id, reason, nil
			}
		}
	}
}

// Close removes the match rule and stops delivery. It is safe to call
// more than once.
func (s *ClosedSubscription) Close() error {
	s.once.Do(func() {
		if s.cleanup != nil {
			s.cleanup()
		}
	})
	return nil
}

func parseClosed(sig *dbus.Signal) (string, model.CloseReason, bool) {
	if sig == nil || sig.Name != Interface+".NotificationClosed" || len(sig.Body) != 2 {
		return "", 0, false
	}
	id, ok := sig.Body[0].(string)
	if !ok {
		return "", 0, false
	}
	reason, ok := sig.Body[1].(uint32)
	if !ok {
		return "", 0, false
	}
	return id, model.CloseReason(reason), true
}
