package channel

import (
	"fmt"
)

// Mode selects the transport backing a channel pair.
type Mode string

const (
	// ModeSharedMemory forces the atomic shared-region transport.
	ModeSharedMemory Mode = "shared-memory"
	// ModeMessagePassing forces the whole-state message transport.
	ModeMessagePassing Mode = "message-passing"
	// ModeAutomatic probes the environment and prefers shared memory.
	ModeAutomatic Mode = "automatic"
)

// ParseMode validates a textual mode, defaulting empty to automatic.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSharedMemory, ModeMessagePassing, ModeAutomatic:
		return Mode(s), nil
	case "":
		return ModeAutomatic, nil
	default:
		return "", fmt.Errorf("unknown channel mode %q", s)
	}
}

// Pair is a matched main/background channel couple. Region is the shared
// block handle, non-nil only when the resolved mode is shared-memory; it is
// what a host embedder hands to the background context at creation time.
type Pair struct {
	Main       Channel
	Background Channel
	Region     *Region
	Mode       Mode
}

// Close releases both ends. Idempotent.
func (p *Pair) Close() {
	p.Main.Close()
	p.Background.Close()
}

// Probe reports whether the shared-memory transport can be used. The
// default probe allocates a region to verify the environment permits it;
// tests and constrained embedders substitute their own via WithProbe.
type Probe func() bool

func defaultProbe() bool {
	return NewRegion() != nil
}

// PairOption configures pair construction.
type PairOption func(*pairConfig)

type pairConfig struct {
	probe Probe
	opts  []Option
}

// WithProbe overrides shared-memory capability detection for automatic
// mode selection.
func WithProbe(p Probe) PairOption {
	return func(c *pairConfig) {
		if p != nil {
			c.probe = p
		}
	}
}

// WithEndOptions forwards channel options (logger, poll interval) to both
// constructed ends.
func WithEndOptions(opts ...Option) PairOption {
	return func(c *pairConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// NewPair constructs a matched pair of channel ends for the requested mode.
// Automatic mode resolves to shared-memory only when the probe passes, and
// falls back to message-passing otherwise. Both ends always speak the same
// transport.
func NewPair(mode Mode, opts ...PairOption) (*Pair, error) {
	cfg := pairConfig{probe: defaultProbe}
	for _, opt := range opts {
		opt(&cfg)
	}

	resolved := mode
	if mode == ModeAutomatic || mode == "" {
		if cfg.probe() {
			resolved = ModeSharedMemory
		} else {
			resolved = ModeMessagePassing
		}
	}

	switch resolved {
	case ModeSharedMemory:
		region := NewRegion()
		main, err := NewSharedMemory(region, cfg.opts...)
		if err != nil {
			return nil, err
		}
		background, err := NewSharedMemory(region, cfg.opts...)
		if err != nil {
			return nil, err
		}
		return &Pair{Main: main, Background: background, Region: region, Mode: resolved}, nil

	case ModeMessagePassing:
		a, b := NewPortPair()
		main, err := NewMessagePassing(a, cfg.opts...)
		if err != nil {
			return nil, err
		}
		background, err := NewMessagePassing(b, cfg.opts...)
		if err != nil {
			main.Close()
			return nil, err
		}
		return &Pair{Main: main, Background: background, Mode: resolved}, nil

	default:
		return nil, fmt.Errorf("unknown channel mode %q", mode)
	}
}
