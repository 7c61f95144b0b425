package presentation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-proposal/pkg/identity"
)

func scheduleURL(base, name, email, tripFilename string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("presentation: schedule url %q: %w", base, err)
	}
	q := u.Query()
	if name = strings.TrimSpace(name); name != "" {
		q.Set("name", name)
	}
	if email = strings.TrimSpace(email); email != "" && identity.ValidEmail(email) {
		q.Set("email", email)
	}
	q.Set("notes", "Trip:"+tripFilename)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
