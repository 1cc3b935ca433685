package emoji

import (
	"strings"
	"sync/atomic"
)

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":    {"❌", "[ERR]"},
	"warning":  {"⚠️", "[WRN]"},
	"info":     {"ℹ️", "[INF]"},
	"success":  {"✅", "[OK]"},
	"camera":   {"📷", "[CAM]"},
	"upload":   {"📁", "[FILE]"},
	"palette":  {"🎨", "[PAL]"},
	"season":   {"🌈", "[SEA]"},
	"spring":   {"🌷", "[SPR]"},
	"summer":   {"🌊", "[SUM]"},
	"autumn":   {"🍂", "[AUT]"},
	"winter":   {"❄️", "[WIN]"},
	"outfit":   {"👗", "[FIT]"},
	"mask":     {"🎭", "[MSK]"},
	"timer":    {"⏱️", "[T]"},
	"health":   {"🩺", "[HLT]"},
	"help":     {"❓", "[?]"},
	"target":   {"🎯", "[>]"},
	"number":   {"🔢", "[#]"},
	"door":     {"🚪", "[EXIT]"},
	"watch":    {"👀", "[WATCH]"},
	"sparkles": {"✨", "[*]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForSeason returns the symbol for a season name, matched case-insensitively
// on its prefix so "Spring", "spring" and "Spring Light" all resolve.
func ForSeason(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, key := range []string{"spring", "summer", "autumn", "winter"} {
		if strings.HasPrefix(lower, key) {
			return GetEmoji(key)
		}
	}
	if strings.HasPrefix(lower, "fall") {
		return GetEmoji("autumn")
	}
	return GetEmoji("season")
}
