package presentation

import (
	"encoding/json"
	"fmt"
)

// Agent holds the advisor's contact channels.
type Agent struct {
	Phone        string `json:"phone" yaml:"phone"`
	SMS          string `json:"sms" yaml:"sms"`
	Email        string `json:"email" yaml:"email"`
	MessengerURL string `json:"messengerUrl" yaml:"messengerUrl"`
	ScheduleURL  string `json:"scheduleUrl" yaml:"scheduleUrl"`
}

// Booking points at the booking system used for payment links.
type Booking struct {
	AuthLink string `json:"authLink" yaml:"authLink"`
}

// FormsConfig selects how questions and feedback are submitted.
type FormsConfig struct {
	Provider         string `json:"provider" yaml:"provider"`
	QuestionEndpoint string `json:"questionEndpoint" yaml:"questionEndpoint"`
	FeedbackEndpoint string `json:"feedbackEndpoint" yaml:"feedbackEndpoint"`
}

// AnalyticsConfig selects where engagement events go.
type AnalyticsConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	Domain   string `json:"domain" yaml:"domain"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// ChatConfig enables a live chat widget.
type ChatConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Provider  string `json:"provider" yaml:"provider"`
	WebsiteID string `json:"websiteId" yaml:"websiteId"`
}

// Features toggles page behaviours.
type Features struct {
	ExitIntent bool `json:"exitIntent" yaml:"exitIntent"`
	AskButtons bool `json:"askButtons" yaml:"askButtons"`
	ContactBar bool `json:"contactBar" yaml:"contactBar"`
	NextSteps  bool `json:"nextSteps" yaml:"nextSteps"`
}

// Config is the site configuration exposed to pages as SITE_CONFIG.
type Config struct {
	Agent     Agent           `json:"agent" yaml:"agent"`
	Booking   Booking         `json:"cpmaxx" yaml:"cpmaxx"`
	Forms     FormsConfig     `json:"forms" yaml:"forms"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Chat      ChatConfig      `json:"chat" yaml:"chat"`
	Features  Features        `json:"features" yaml:"features"`
}

// DefaultConfig returns the configuration used when nothing is set.
// Analytics default to plausible for domain, or to none when domain is
// empty.
func DefaultConfig(domain string) Config {
	analytics := AnalyticsConfig{Provider: AnalyticsPlausible, Domain: domain}
	if domain == "" {
		analytics.Provider = AnalyticsNone
	}
	return Config{
		Booking:   Booking{AuthLink: "#"},
		Forms:     FormsConfig{Provider: FormsAuto},
		Analytics: analytics,
		Chat:      ChatConfig{Provider: ChatCrisp},
		Features: Features{
			ExitIntent: true,
			AskButtons: true,
			ContactBar: true,
			NextSteps:  true,
		},
	}
}

// Merge deep-merges overrides into base. Nested objects merge key by key;
// any other value, arrays included, replaces the base value.
func Merge(base Config, overrides map[string]any) (Config, error) {
	if len(overrides) == 0 {
		return base, nil
	}
	baseMap, err := toMap(base)
	if err != nil {
		return Config{}, err
	}
	merged := deepMerge(baseMap, overrides)

	data, err := json.Marshal(merged)
	if err != nil {
		return Config{}, fmt.Errorf("presentation: encode merged config: %w", err)
	}
	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		return Config{}, fmt.Errorf("presentation: decode merged config: %w", err)
	}
	return out, nil
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("presentation: encode config: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("presentation: decode config: %w", err)
	}
	return out, nil
}

func deepMerge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if sub, ok := v.(map[string]any); ok {
			prev, _ := a[k].(map[string]any)
			out[k] = deepMerge(prev, sub)
			continue
		}
		out[k] = v
	}
	return out
}
