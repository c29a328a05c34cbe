package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// Client calls a running notification host over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient opens a private session bus connection.
func NewClient(ctx context.Context) (*Client, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClientOn(conn), nil
}

// NewClientOn creates a Client on an existing connection.
func NewClientOn(conn *dbus.Conn) *Client {
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, Path),
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Show sends a plain-text notification and returns its id.
func (c *Client) Show(ctx context.Context, message string, severity model.Severity, duration time.Duration) (string, error) {
	return c.show(ctx, "Show", message, severity, duration)
}

// ShowMarkup sends a rich-text notification and returns its id.
func (c *Client) ShowMarkup(ctx context.Context, message string, severity model.Severity, duration time.Duration) (string, error) {
	return c.show(ctx, "ShowMarkup", message, severity, duration)
}

func (c *Client) show(ctx context.Context, method, message string, severity model.Severity, duration time.Duration) (string, error) {
	var id string
	err := c.obj.CallWithContext(ctx, Interface+"."+method, 0, message, string(severity), Millis(duration)).Store(&id)
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", method, err)
	}
	return id, nil
}

// Dismiss closes a notification.
func (c *Client) Dismiss(ctx context.Context, id string) error {
	if err := c.obj.CallWithContext(ctx, Interface+".Dismiss", 0, id).Err; err != nil {
		return fmt.Errorf("failed to call Dismiss: %w", err)
	}
	return nil
}

// Clear closes every notification.
func (c *Client) Clear(ctx context.Context) error {
	if err := c.obj.CallWithContext(ctx, Interface+".Clear", 0).Err; err != nil {
		return fmt.Errorf("failed to call Clear: %w", err)
	}
	return nil
}

// List returns the host's notifications, newest first.
func (c *Client) List(ctx context.Context) ([]stack.CardInfo, error) {
	var wire []WireCard
	if err := c.obj.CallWithContext(ctx, Interface+".List", 0).Store(&wire); err != nil {
		return nil, fmt.Errorf("failed to call List: %w", err)
	}

	cards := make([]stack.CardInfo, 0, len(wire))
	for _, w := range wire {
		cards = append(cards, w.Info())
	}
	return cards, nil
}

// ServerInformation returns the host's identification.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := c.obj.CallWithContext(ctx, Interface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("failed to call GetServerInformation: %w", err)
	}
	return info, nil
}
