// internal/probe/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// maxReadRegs is the protocol ceiling for one holding-register read.
const maxReadRegs = 125

// Client implements probe.Client using Modbus TCP.
// This adapter is geometry-only: it chunks large reads and
// concatenates raw responses.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: handler,
		client:  modbus.NewClient(handler),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ReadRegion reads quantity registers starting at addr, chunked at
// the protocol read limit, and returns the concatenated bytes.
func (c *Client) ReadRegion(addr, quantity uint16) ([]byte, error) {
	out := make([]byte, 0, 2*int(quantity))

	for quantity > 0 {
		n := quantity
		if n > maxReadRegs {
			n = maxReadRegs
		}

		chunk, err := c.client.ReadHoldingRegisters(addr, n)
		if err != nil {
			return nil, err
		}
		if len(chunk) != 2*int(n) {
			return nil, fmt.Errorf("modbus client: short read at %d: %d bytes", addr, len(chunk))
		}

		out = append(out, chunk...)
		addr += n
		quantity -= n
	}

	return out, nil
}
