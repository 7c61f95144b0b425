package viewmodel

import "strings"

func destinationEmoji(table []EmojiEntry, destination string) string {
	lowered := strings.ToLower(destination)
	for _, entry := range table {
		if entry.Match == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(entry.Match)) {
			return entry.Emoji
		}
	}
	return defaultEmoji
}
