package analytics

import (
	"regexp"
	"strings"
)

// BrowserInfo is what we can tell about the visitor's client from the
// User-Agent header alone. Everything here is best-effort; unknown stays
// "Unknown".
type BrowserInfo struct {
	BrowserType     string
	BrowserVersion  string
	OperatingSystem string
	DeviceType      string // desktop, tablet, mobile
	DeviceModel     string
}

var (
	chromeVersionRe  = regexp.MustCompile(`Chrome/([0-9.]+)`)
	firefoxVersionRe = regexp.MustCompile(`Firefox/([0-9.]+)`)
	safariVersionRe  = regexp.MustCompile(`Version/([0-9.]+)`)
	edgeVersionRe    = regexp.MustCompile(`Edg(?:e)?/([0-9.]+)`)
	operaVersionRe   = regexp.MustCompile(`OPR/([0-9.]+)`)
	macOSVersionRe   = regexp.MustCompile(`Mac OS X ([0-9_]+)`)
	androidVersionRe = regexp.MustCompile(`Android ([0-9.]+)`)
	iosVersionRe     = regexp.MustCompile(`OS ([0-9_]+)`)
	androidModelRe   = regexp.MustCompile(`\(Linux;[^;]*;\s*([^;)]+)\)`)
	mobileRe         = regexp.MustCompile(`(?i)Mobile|Android|iPhone|iPod|BlackBerry|Windows Phone`)
	tabletRe         = regexp.MustCompile(`(?i)iPad|Tablet`)
)

// ParseUserAgent classifies a User-Agent string. Order matters: Edge and
// Opera embed "Chrome", Chrome embeds "Safari".
func ParseUserAgent(ua string) BrowserInfo {
	info := BrowserInfo{
		BrowserType:     "Unknown",
		OperatingSystem: "Unknown",
		DeviceType:      "desktop",
	}
	if ua == "" {
		return info
	}

	switch {
	case strings.Contains(ua, "Edg"):
		info.BrowserType = "Edge"
		info.BrowserVersion = firstMatch(edgeVersionRe, ua)
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		info.BrowserType = "Opera"
		info.BrowserVersion = firstMatch(operaVersionRe, ua)
	case strings.Contains(ua, "Chrome") && !strings.Contains(ua, "Chromium"):
		info.BrowserType = "Chrome"
		info.BrowserVersion = firstMatch(chromeVersionRe, ua)
	case strings.Contains(ua, "Firefox"):
		info.BrowserType = "Firefox"
		info.BrowserVersion = firstMatch(firefoxVersionRe, ua)
	case strings.Contains(ua, "Safari"):
		info.BrowserType = "Safari"
		info.BrowserVersion = firstMatch(safariVersionRe, ua)
	}

	switch {
	case strings.Contains(ua, "Windows NT 10.0"):
		info.OperatingSystem = "Windows 10"
	case strings.Contains(ua, "Windows"):
		info.OperatingSystem = "Windows"
	case strings.Contains(ua, "iPhone OS") || strings.Contains(ua, "like Mac OS X"):
		if v := firstMatch(iosVersionRe, ua); v != "" {
			info.OperatingSystem = "iOS " + strings.ReplaceAll(v, "_", ".")
		} else {
			info.OperatingSystem = "iOS"
		}
	case strings.Contains(ua, "Mac OS X"):
		if v := firstMatch(macOSVersionRe, ua); v != "" {
			info.OperatingSystem = "macOS " + strings.ReplaceAll(v, "_", ".")
		} else {
			info.OperatingSystem = "macOS"
		}
	case strings.Contains(ua, "Android"):
		if v := firstMatch(androidVersionRe, ua); v != "" {
			info.OperatingSystem = "Android " + v
		} else {
			info.OperatingSystem = "Android"
		}
	case strings.Contains(ua, "Linux"):
		info.OperatingSystem = "Linux"
	}

	switch {
	case strings.Contains(ua, "iPad"):
		info.DeviceType = "tablet"
		info.DeviceModel = "iPad"
	case strings.Contains(ua, "iPhone"):
		info.DeviceType = "mobile"
		info.DeviceModel = "iPhone"
	case mobileRe.MatchString(ua):
		info.DeviceType = "mobile"
		info.DeviceModel = firstMatch(androidModelRe, ua)
	case tabletRe.MatchString(ua):
		info.DeviceType = "tablet"
	}

	return info
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
