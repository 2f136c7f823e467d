package analytics

import "net/http"

// Traffic holds the acquisition data recorded with each session: where the
// visitor came from and which campaign brought them.
type Traffic struct {
	ReferrerURL string
	LandingPage string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

// ParseTraffic extracts referrer and UTM parameters from the request that
// started the session.
func ParseTraffic(r *http.Request) Traffic {
	q := r.URL.Query()
	return Traffic{
		ReferrerURL: r.Referer(),
		LandingPage: r.URL.Path,
		UTMSource:   q.Get("utm_source"),
		UTMMedium:   q.Get("utm_medium"),
		UTMCampaign: q.Get("utm_campaign"),
	}
}
