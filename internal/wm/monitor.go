package wm

import (
	"golang.org/x/exp/slices"

	"panewm/internal/log"
	"panewm/internal/x11"
)

// Monitor is one known output and its position in the screen space.
type Monitor struct {
	Name   string
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// MonitorSet tracks the known outputs across screen configuration changes.
type MonitorSet struct {
	monitors []Monitor
}

// Monitors returns the known outputs.
func (m *MonitorSet) Monitors() []Monitor {
	return m.monitors
}

// Primary returns the first known output, or nil if none are connected.
func (m *MonitorSet) Primary() *Monitor {
	if len(m.monitors) == 0 {
		return nil
	}
	return &m.monitors[0]
}

// Merge reconciles the known outputs with a fresh enumeration. Outputs that
// are still present keep their position in the set and get their geometry
// updated; new outputs are appended; outputs that disappeared are dropped.
func (m *MonitorSet) Merge(outputs []x11.Output) {
	next := make([]Monitor, 0, len(outputs))
	seen := make(map[string]bool, len(outputs))
	for _, mon := range m.monitors {
		idx := slices.IndexFunc(outputs, func(o x11.Output) bool {
			return o.Name == mon.Name
		})
		if idx == -1 {
			log.Info("Output %s disconnected", mon.Name)
			continue
		}
		out := outputs[idx]
		if mon.X != out.X || mon.Y != out.Y || mon.Width != out.Width || mon.Height != out.Height {
			log.Info("Output %s moved to %dx%d+%d,%d", out.Name, out.Width, out.Height, out.X, out.Y)
		}
		next = append(next, Monitor(out))
		seen[out.Name] = true
	}
	for _, out := range outputs {
		if seen[out.Name] {
			continue
		}
		log.Info("Output %s connected (%dx%d+%d,%d)", out.Name, out.Width, out.Height, out.X, out.Y)
		next = append(next, Monitor(out))
	}
	m.monitors = next
}
