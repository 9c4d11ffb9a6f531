package printing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"love-booth/core"
)

// Service UUIDs advertised for discovery. These are hints only: discovery
// accepts every advertiser and filters later, and connection enumerates all
// primary services regardless of what was advertised.
var discoveryServices = []bluetooth.UUID{
	bluetooth.New16BitUUID(0x18F0), // generic printer service
	bluetooth.New16BitUUID(0x1101), // serial port profile
	bluetooth.New16BitUUID(0xFF00), // vendor thermal printer
}

// BLEAdapter implements Adapter over the platform BLE stack.
type BLEAdapter struct {
	adapter    *bluetooth.Adapter
	scanWindow time.Duration

	enableOnce sync.Once
	enableErr  error
}

func NewBLEAdapter() *BLEAdapter {
	return &BLEAdapter{
		adapter:    bluetooth.DefaultAdapter,
		scanWindow: 10 * time.Second,
	}
}

// AdapterFromEnv returns the BLE adapter, or a permanently unsupported one
// when peripheral printing is switched off for this deployment.
func AdapterFromEnv() Adapter {
	if v := os.Getenv("LOVEBOOTH_BLE_DISABLED"); v == "1" || v == "true" {
		logrus.Info("Peripheral printing disabled, system dialog only")
		return UnsupportedAdapter{}
	}
	return NewBLEAdapter()
}

// UnsupportedAdapter is the adapter for platforms without a BLE stack.
type UnsupportedAdapter struct{}

func (UnsupportedAdapter) Supported() bool { return false }

func (UnsupportedAdapter) RequestPeripheral(context.Context) (Peripheral, error) {
	return nil, core.ErrCapabilityUnsupported
}

func (a *BLEAdapter) Supported() bool {
	a.enableOnce.Do(func() { a.enableErr = a.adapter.Enable() })
	if a.enableErr != nil {
		logrus.WithField("error", a.enableErr).Warn("BLE adapter unavailable")
	}
	return a.enableErr == nil
}

type bleCandidate struct {
	addr bluetooth.Address
	name string
}

// RequestPeripheral scans with an accept-all policy: an advertiser carrying
// one of the known printer service hints wins immediately, otherwise the
// first device seen is taken when the scan window closes. Context
// cancellation is the user backing out of selection.
func (a *BLEAdapter) RequestPeripheral(ctx context.Context) (Peripheral, error) {
	if !a.Supported() {
		return nil, core.ErrCapabilityUnsupported
	}

	var (
		mu    sync.Mutex
		first *bleCandidate
	)
	match := make(chan bleCandidate, 1)

	scanDone := make(chan error, 1)
	go func() {
		scanDone <- a.adapter.Scan(func(_ *bluetooth.Adapter, res bluetooth.ScanResult) {
			c := bleCandidate{addr: res.Address, name: res.LocalName()}
			for _, u := range discoveryServices {
				if res.HasServiceUUID(u) {
					select {
					case match <- c:
					default:
					}
					return
				}
			}
			mu.Lock()
			if first == nil {
				first = &c
			}
			mu.Unlock()
		})
	}()

	window := time.NewTimer(a.scanWindow)
	defer window.Stop()

	var chosen *bleCandidate
	select {
	case c := <-match:
		chosen = &c
		_ = a.adapter.StopScan()
		<-scanDone
	case err := <-scanDone:
		// Scan ended on its own, before the window closed. An error here
		// is the root cause and must not wait out the window.
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", core.ErrTransportFailure, err)
		}
		mu.Lock()
		chosen = first
		mu.Unlock()
	case <-window.C:
		_ = a.adapter.StopScan()
		<-scanDone
		mu.Lock()
		chosen = first
		mu.Unlock()
	case <-ctx.Done():
		_ = a.adapter.StopScan()
		<-scanDone
		return nil, core.ErrScanCancelled
	}

	if chosen == nil {
		return nil, fmt.Errorf("%w: no peripherals discovered", core.ErrTransportFailure)
	}
	logrus.WithFields(logrus.Fields{
		"address": chosen.addr.String(),
		"name":    chosen.name,
	}).Info("Peripheral selected")
	return &blePeripheral{adapter: a.adapter, addr: chosen.addr, name: chosen.name}, nil
}

type blePeripheral struct {
	adapter *bluetooth.Adapter
	addr    bluetooth.Address
	name    string

	mu        sync.Mutex
	device    bluetooth.Device
	connected bool
}

func (p *blePeripheral) ID() string   { return p.addr.String() }
func (p *blePeripheral) Name() string { return p.name }

func (p *blePeripheral) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *blePeripheral) Connect(_ context.Context) error {
	dev, err := p.adapter.Connect(p.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("%w: connect %s: %v", core.ErrTransportFailure, p.addr.String(), err)
	}
	p.mu.Lock()
	p.device = dev
	p.connected = true
	p.mu.Unlock()
	return nil
}

func (p *blePeripheral) Services() ([]Service, error) {
	p.mu.Lock()
	dev := p.device
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		return nil, core.ErrTransportFailure
	}
	discovered, err := dev.DiscoverServices(nil)
	if err != nil {
		return nil, err
	}
	services := make([]Service, len(discovered))
	for i, svc := range discovered {
		services[i] = &bleService{svc: svc}
	}
	return services, nil
}

func (p *blePeripheral) Disconnect() error {
	p.mu.Lock()
	dev := p.device
	connected := p.connected
	p.connected = false
	p.mu.Unlock()
	if !connected {
		return nil
	}
	return dev.Disconnect()
}

type bleService struct {
	svc bluetooth.DeviceService
}

func (s *bleService) UUID() string { return s.svc.UUID().String() }

func (s *bleService) Characteristics() ([]Characteristic, error) {
	discovered, err := s.svc.DiscoverCharacteristics(nil)
	if err != nil {
		return nil, err
	}
	chars := make([]Characteristic, len(discovered))
	for i, ch := range discovered {
		chars[i] = &bleCharacteristic{char: ch}
	}
	return chars, nil
}

type bleCharacteristic struct {
	char bluetooth.DeviceCharacteristic
}

func (c *bleCharacteristic) UUID() string { return c.char.UUID().String() }

// Writable is a pragmatic first-match heuristic: the platform stack does
// not surface property flags portably, so every discovered characteristic
// is a write candidate and a failing write routes to the dialog fallback.
func (c *bleCharacteristic) Writable() bool { return true }

func (c *bleCharacteristic) Write(p []byte) error {
	n, err := c.char.WriteWithoutResponse(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(p))
	}
	return nil
}
