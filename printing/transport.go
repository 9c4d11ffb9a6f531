// Package printing streams composites to a wireless printing peripheral,
// falling back to the system print dialog whenever the transport lets it
// down. The fallback path always satisfies the print affordance.
package printing

import (
	"context"
	"fmt"

	"love-booth/core"
)

// ChunkSize is the write payload bound: the conservative lower limit for
// link-layer payloads. Writes are strictly sequential: there is no other
// flow-control signal, so chunk k+1 must not be issued before chunk k's
// completion is observed.
const ChunkSize = 512

type (
	// Adapter is the platform's wireless-peripheral surface.
	Adapter interface {
		// Supported reports whether the platform can do peripheral
		// printing at all.
		Supported() bool
		// RequestPeripheral runs discovery and device selection. A user
		// abort returns core.ErrScanCancelled.
		RequestPeripheral(ctx context.Context) (Peripheral, error)
	}

	// Peripheral is one paired device. At most one link is held at a time,
	// owned exclusively by the print session.
	Peripheral interface {
		ID() string
		Name() string
		Connected() bool
		Connect(ctx context.Context) error
		Services() ([]Service, error)
		Disconnect() error
	}

	Service interface {
		UUID() string
		Characteristics() ([]Characteristic, error)
	}

	Characteristic interface {
		UUID() string
		// Writable covers both write-with-response and write-without-response.
		Writable() bool
		Write(p []byte) error
	}
)

// findWritable enumerates all primary services and all characteristics per
// service, returning the first one flagged writable.
func findWritable(p Peripheral) (Characteristic, error) {
	services, err := p.Services()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate services: %v", core.ErrTransportFailure, err)
	}
	for _, svc := range services {
		chars, err := svc.Characteristics()
		if err != nil {
			return nil, fmt.Errorf("%w: enumerate characteristics of %s: %v",
				core.ErrTransportFailure, svc.UUID(), err)
		}
		for _, ch := range chars {
			if ch.Writable() {
				return ch, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no writable characteristic", core.ErrTransportFailure)
}

// writeChunks streams data as ceil(len/ChunkSize) ordered writes, each one
// completing before the next is issued.
func writeChunks(ch Characteristic, data []byte) error {
	for off := 0; off < len(data); off += ChunkSize {
		end := off + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := ch.Write(data[off:end]); err != nil {
			return fmt.Errorf("%w: chunk at offset %d: %v", core.ErrTransportFailure, off, err)
		}
	}
	return nil
}
