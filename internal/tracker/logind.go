package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	logindDest        = "org.freedesktop.login1"
	logindAutoSession = dbus.ObjectPath("/org/freedesktop/login1/session/auto")
	propIdleHint      = "org.freedesktop.login1.Session.IdleHint"
	propIdleSinceHint = "org.freedesktop.login1.Session.IdleSinceHint"
)

type propertyReader interface {
	GetProperty(p string) (dbus.Variant, error)
}

// LogindSource reads the idle hint of the caller's logind session over the
// system bus. While the session is not idle, activity is reported as now.
type LogindSource struct {
	conn    *dbus.Conn
	session propertyReader
}

// NewLogindSource connects to the system bus and binds the session that
// logind resolves for this process.
func NewLogindSource() (*LogindSource, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to system bus: %w", err)
	}
	src := &LogindSource{
		conn:    conn,
		session: conn.Object(logindDest, logindAutoSession),
	}
	if _, err := src.session.GetProperty(propIdleHint); err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading logind session: %w", err)
	}
	return src, nil
}

func (l *LogindSource) LastActivity(_ context.Context, now time.Time) (time.Time, error) {
	hint, err := l.session.GetProperty(propIdleHint)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get IdleHint: %w", err)
	}
	idle, ok := hint.Value().(bool)
	if !ok {
		return time.Time{}, fmt.Errorf("IdleHint has type %s", hint.Signature())
	}
	if !idle {
		return now, nil
	}

	since, err := l.session.GetProperty(propIdleSinceHint)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get IdleSinceHint: %w", err)
	}
	usec, ok := since.Value().(uint64)
	if !ok {
		return time.Time{}, fmt.Errorf("IdleSinceHint has type %s", since.Signature())
	}
	if usec == 0 {
		return now, nil
	}
	return time.UnixMicro(int64(usec)).UTC(), nil
}

func (l *LogindSource) Close() error {
	if l.conn == nil {
		return nil
	}
	return l.conn.Close()
}
