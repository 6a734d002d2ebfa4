// internal/pkg/device/device.go
package device

import "strings"

// Describe maps a raw User-Agent string to a coarse device label used as the
// session's device descriptor.
func Describe(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	if strings.Contains(userAgent, "Mobile") {
		switch {
		case strings.Contains(userAgent, "iPhone"):
			return "iPhone"
		case strings.Contains(userAgent, "Android"):
			return "Android Phone"
		}
		return "Mobile Device"
	}

	switch {
	case strings.Contains(userAgent, "iPad"):
		return "iPad"
	case strings.Contains(userAgent, "Tablet"):
		return "Tablet"
	case strings.Contains(userAgent, "Edge"):
		return "Edge Browser"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome Browser"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox Browser"
	case strings.Contains(userAgent, "Safari"):
		return "Safari Browser"
	}

	return "Desktop Browser"
}
