package wsruntime

import (
	"context"
	"fmt"
)

// PassthroughConfig describes which messages a PassthroughHandler
// forwards and where.
type PassthroughConfig struct {
	Pattern     MessagePattern
	UpstreamURL string
}

// NewPassthroughConfig pairs a pattern with the upstream it forwards to.
func NewPassthroughConfig(pattern MessagePattern, upstreamURL string) PassthroughConfig {
	return PassthroughConfig{Pattern: pattern, UpstreamURL: upstreamURL}
}

// NewRegexPassthroughConfig builds a config matching every message text
// against regex.
func NewRegexPassthroughConfig(regex, upstreamURL string) (PassthroughConfig, error) {
	pattern, err := NewRegexPattern(regex)
	if err != nil {
		return PassthroughConfig{}, err
	}
	return PassthroughConfig{Pattern: pattern, UpstreamURL: upstreamURL}, nil
}

// PassthroughHandler forwards matching text messages to an upstream
// server. Forwarding itself is left to the transport layer; this
// handler only decides what qualifies and echoes a marker reply, the
// way a stub upstream would during local development.
type PassthroughHandler struct {
	BaseHandler
	config PassthroughConfig
}

// NewPassthroughHandler builds a handler from config.
func NewPassthroughHandler(config PassthroughConfig) *PassthroughHandler {
	return &PassthroughHandler{config: config}
}

// ShouldPassthrough reports whether text matches this handler's pattern.
func (h *PassthroughHandler) ShouldPassthrough(text string) bool {
	return h.config.Pattern.Matches(text)
}

// UpstreamURL returns the configured forwarding target.
func (h *PassthroughHandler) UpstreamURL() string {
	return h.config.UpstreamURL
}

// OnMessage echoes a PASSTHROUGH marker for every message that
// qualifies, and declines (does nothing) otherwise.
func (h *PassthroughHandler) OnMessage(_ context.Context, wc *Context, msg Message) error {
	if msg.Kind != KindText {
		return nil
	}
	text := msg.String()
	if !h.ShouldPassthrough(text) {
		return nil
	}
	return wc.SendText(fmt.Sprintf("PASSTHROUGH(%s): %s", h.config.UpstreamURL, text))
}
