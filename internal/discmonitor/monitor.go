package discmonitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"cdrip/internal/logging"
)

// Handler is called with the device path when media is inserted.
type Handler func(ctx context.Context, device string) error

// Monitor watches the kernel uevent stream for one drive.
type Monitor struct {
	logger  *slog.Logger
	handler Handler
	isBusy  func() bool
	device  string
	aliases map[string]struct{}

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// New creates a monitor for device. isBusy, when set, suppresses events that
// arrive while a previous scan is still running.
func New(device string, logger *slog.Logger, handler Handler, isBusy func() bool) (*Monitor, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, errors.New("disc monitor: device is required")
	}
	aliases := map[string]struct{}{device: {}}
	if resolved, err := filepath.EvalSymlinks(device); err == nil {
		aliases[resolved] = struct{}{}
	}
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "disc-monitor"),
		handler: handler,
		isBusy:  isBusy,
		device:  device,
		aliases: aliases,
	}, nil
}

// Start connects to the netlink socket and begins delivering events.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect to udev netlink socket: %w", err)
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	go m.monitorLoop(ctx, conn, m.quit, m.done)

	m.logger.Info("disc monitor started",
		logging.String(logging.FieldEventType, "disc_monitor_started"),
		logging.Device(m.device),
	)
	return nil
}

// Stop shuts down the monitor and waits for the event loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.quit)
	done := m.done
	conn := m.conn
	m.quit, m.done, m.conn = nil, nil, nil
	m.running = false
	m.mu.Unlock()

	<-done
	_ = conn.Close()
	m.logger.Info("disc monitor stopped",
		logging.String(logging.FieldEventType, "disc_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "disc monitor error", "disc_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "disc insertion may go unnoticed"),
			)
		}
	}
}

// buildMatcher matches media insertion on optical drives:
// SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1, ACTION=change|add.
func buildMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func (m *Monitor) matches(devname string) bool {
	_, ok := m.aliases[devname]
	return ok
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := deviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if !m.matches(devname) {
		m.logger.Debug("ignoring event for another drive",
			logging.Device(devname),
			logging.String("configured_device", m.device),
		)
		return
	}
	if m.isBusy != nil && m.isBusy() {
		m.logger.Debug("scan in progress, ignoring media event",
			logging.Device(devname),
		)
		return
	}

	m.logger.Info("disc media detected",
		logging.String(logging.FieldEventType, "disc_media_detected"),
		logging.Device(devname),
		logging.String("action", string(uevent.Action)),
	)
	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, m.device); err != nil {
		logging.WarnWithContext(m.logger, "disc handler failed", "disc_handler_failed",
			logging.Error(err),
			logging.Device(devname),
			logging.String(logging.FieldErrorHint, "run cdrip scan manually for details"),
			logging.String(logging.FieldImpact, "disc not scanned"),
		)
	}
}

// deviceName reads DEVNAME, falling back to the last DEVPATH element.
func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/") {
			devname = "/dev/" + devname
		}
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
