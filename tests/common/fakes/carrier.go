//go:build unit || e2e

package fakes

import "time"

// Carrier is an in-memory bridge.StateCarrier.
type Carrier struct {
	Token   string
	Present bool
	Cleared bool
}

func (c *Carrier) Load() (string, bool) { return c.Token, c.Present }

func (c *Carrier) Store(token string, _ time.Duration) {
	c.Token = token
	c.Present = true
}

func (c *Carrier) Clear() {
	c.Token = ""
	c.Present = false
	c.Cleared = true
}
