package presentation

import (
	"encoding/json"
	"fmt"
)

// Chat providers.
const (
	ChatCrisp = "crisp"
	ChatNone  = "none"
)

// CrispScript is the crisp loader script.
const CrispScript = "https://client.crisp.chat/l.js"

// Chat is a resolved chat strategy.
type Chat interface {
	Provider() string
	// Body returns markup to place at the end of the document body.
	Body() (string, error)
}

type crispChat struct {
	websiteID string
}

func (crispChat) Provider() string { return ChatCrisp }

func (c crispChat) Body() (string, error) {
	id, err := json.Marshal(c.websiteID)
	if err != nil {
		return "", fmt.Errorf("presentation: encode crisp website id: %w", err)
	}
	return fmt.Sprintf(`<script>window.$crisp=[];window.CRISP_WEBSITE_ID=%s;</script><script src="%s" async></script>`,
		id, CrispScript), nil
}

type noChat struct{}

func (noChat) Provider() string      { return ChatNone }
func (noChat) Body() (string, error) { return "", nil }

func resolveChat(cfg ChatConfig) (Chat, error) {
	switch cfg.Provider {
	case ChatCrisp, ChatNone, "":
	default:
		return nil, fmt.Errorf("%w: chat provider %q", ErrUnknownProvider, cfg.Provider)
	}
	// a crisp widget without a website id loads nothing
	if !cfg.Enabled || cfg.Provider != ChatCrisp || cfg.WebsiteID == "" {
		return noChat{}, nil
	}
	return crispChat{websiteID: cfg.WebsiteID}, nil
}
