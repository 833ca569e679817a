package daemon

import (
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// WakeMonitor listens for systemd-logind PrepareForSleep signals. The sample
// gap itself is what the viewer detects; this monitor only lets the collector
// take a sample and run its rotation check immediately on wake instead of
// waiting out the remainder of a tick.
type WakeMonitor struct {
	conn *dbus.Conn
	done chan struct{}
	wake chan struct{}
	log  *slog.Logger
}

// NewWakeMonitor connects to the system bus and subscribes to sleep signals.
func NewWakeMonitor(logger *slog.Logger) (*WakeMonitor, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
		dbus.WithMatchMember("PrepareForSleep"),
	)
	if err != nil {
		return nil, err
	}

	m := &WakeMonitor{
		conn: conn,
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  logger,
	}
	go m.listen()
	return m, nil
}

// Wake returns a channel that receives a value each time the system wakes.
func (m *WakeMonitor) Wake() <-chan struct{} {
	return m.wake
}

// Close stops the monitor.
func (m *WakeMonitor) Close() {
	close(m.done)
}

func (m *WakeMonitor) listen() {
	ch := make(chan *dbus.Signal, 16)
	m.conn.Signal(ch)
	defer m.conn.RemoveSignal(ch)

	for {
		select {
		case sig := <-ch:
			if sig.Name != "org.freedesktop.login1.Manager.PrepareForSleep" || len(sig.Body) < 1 {
				continue
			}
			entering, ok := sig.Body[0].(bool)
			if !ok {
				continue
			}
			if entering {
				m.log.Info("system going to sleep")
				continue
			}
			m.log.Info("system woke up")
			select {
			case m.wake <- struct{}{}:
			default:
			}
		case <-m.done:
			return
		}
	}
}
