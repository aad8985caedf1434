package haptics

import (
	"fmt"
	"sync"

	"github.com/google/gousb"
)

const (
	// ProconVendorID is Nintendo's USB vendor id.
	ProconVendorID = 0x057E

	rumbleConfig    = 1
	rumbleInterface = 1
	rumbleReportLen = 64
	rumbleReportID  = 0x02
	rumbleOpcode    = 0x50
)

// proconProducts lists Pro Controller product ids that accept rumble reports.
var proconProducts = map[gousb.ID]bool{
	0x2009: true,
	0x2019: true,
	0x2069: true,
}

// rumbleFrame is a steady mid-strength buzz for both actuators.
var rumbleFrame = [5]byte{0x93, 0x35, 0x36, 0x1c, 0x0d}

// RumbleMotor drives the rumble actuators of a USB Pro Controller.
type RumbleMotor struct {
	mu      sync.Mutex
	ctx     *gousb.Context
	dev     *gousb.Device
	done    func()
	ep      *gousb.OutEndpoint
	counter byte
}

// OpenRumbleMotor finds the first attached Pro Controller and claims its
// output endpoint.
func OpenRumbleMotor() (*RumbleMotor, error) {
	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(ProconVendorID) && proconProducts[desc.Product]
	})
	if err != nil && len(devs) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("scan usb: %w", err)
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, ErrNoDevice
	}
	for _, extra := range devs[1:] {
		extra.Close()
	}
	dev := devs[0]

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("auto detach: %w", err)
	}

	intf, done, err := claimRumbleInterface(dev)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	var ep *gousb.OutEndpoint
	for _, desc := range intf.Setting.Endpoints {
		if desc.Direction == gousb.EndpointDirectionOut && desc.TransferType == gousb.TransferTypeBulk {
			ep, err = intf.OutEndpoint(desc.Number)
			break
		}
	}
	if ep == nil {
		if err == nil {
			err = fmt.Errorf("no bulk output endpoint on interface %d", rumbleInterface)
		}
		done()
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return &RumbleMotor{ctx: ctx, dev: dev, done: done, ep: ep}, nil
}

func claimRumbleInterface(dev *gousb.Device) (*gousb.Interface, func(), error) {
	cfg, err := dev.Config(rumbleConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("open config %d: %w", rumbleConfig, err)
	}
	intf, err := cfg.Interface(rumbleInterface, 0)
	if err != nil {
		cfg.Close()
		return nil, nil, fmt.Errorf("claim interface %d: %w", rumbleInterface, err)
	}
	return intf, func() {
		intf.Close()
		cfg.Close()
	}, nil
}

// Start sends a rumble report.
func (m *RumbleMotor) Start() error {
	return m.write(true)
}

// Stop sends a neutral report.
func (m *RumbleMotor) Stop() error {
	return m.write(false)
}

func (m *RumbleMotor) write(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ep == nil {
		return ErrClosed
	}

	report := rumbleReport(m.counter, on)
	m.counter = (m.counter + 1) & 0x0F

	n, err := m.ep.Write(report)
	if err != nil {
		return fmt.Errorf("write rumble report: %w", err)
	}
	if n != len(report) {
		return fmt.Errorf("short rumble write: %d/%d bytes", n, len(report))
	}
	return nil
}

// rumbleReport builds a 64-byte output report. Both halves of the report
// carry the same frame, one per actuator.
func rumbleReport(counter byte, on bool) []byte {
	report := make([]byte, rumbleReportLen)
	report[0] = rumbleReportID
	if !on {
		report[1] = rumbleOpcode
		report[17] = report[1]
		return report
	}
	report[1] = rumbleOpcode | (counter & 0x0F)
	report[17] = report[1]
	copy(report[2:7], rumbleFrame[:])
	copy(report[18:23], rumbleFrame[:])
	return report
}

// Close stops the rumble and releases the device.
func (m *RumbleMotor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ep == nil {
		return nil
	}
	m.ep.Write(rumbleReport(0, false))
	m.ep = nil
	m.done()
	m.dev.Close()
	return m.ctx.Close()
}

// Verify RumbleMotor implements Motor at compile time.
var _ Motor = (*RumbleMotor)(nil)
