package cgi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultSharedMaxAge is the s-maxage used when a CachePolicy has none.
const DefaultSharedMaxAge = 5 * time.Minute

// ContentETag is the strong entity tag of body: its xxhash64 in hex, quoted.
func ContentETag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

// CachePolicy describes how responses for records with a modification time
// may be cached by shared caches.
type CachePolicy struct {
	// Version identifies the build; it is part of the ETag so a new deployment
	// invalidates cached pages.
	Version string
	// SharedMaxAge is the s-maxage directive.
	SharedMaxAge time.Duration
}

// ETag combines the build version with the modification time, so the tag is
// stable across invocations as long as neither changes.
func (p CachePolicy) ETag(lastModified time.Time) string {
	return fmt.Sprintf(`"%s-%d"`, p.Version, lastModified.Unix())
}

// CacheControl is the Cache-Control value for revalidating shared caches.
func (p CachePolicy) CacheControl() string {
	maxAge := p.SharedMaxAge
	if maxAge <= 0 {
		maxAge = DefaultSharedMaxAge
	}
	return fmt.Sprintf("public, s-maxage=%d, proxy-revalidate", int64(maxAge/time.Second))
}

// Apply sets ETag, Last-Modified and Cache-Control on h. A zero lastModified
// leaves h alone.
func (p CachePolicy) Apply(h http.Header, lastModified time.Time) {
	if lastModified.IsZero() {
		return
	}
	h["ETag"] = []string{p.ETag(lastModified)}
	h.Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	h.Set("Cache-Control", p.CacheControl())
}

// NotModified reports whether r's conditional headers match a representation
// with the given etag and modification time. If-None-Match takes precedence
// over If-Modified-Since.
func NotModified(r *http.Request, etag string, lastModified time.Time) bool {
	if inm := r.Header.Get("If-None-Match"); inm != "" {
		return etagMatches(inm, etag)
	}
	ims := r.Header.Get("If-Modified-Since")
	if ims == "" || lastModified.IsZero() {
		return false
	}
	t, err := http.ParseTime(ims)
	if err != nil {
		return false
	}
	return !lastModified.Truncate(time.Second).After(t)
}

// weak comparison, RFC 7232 section 3.2
func etagMatches(list, etag string) bool {
	if strings.TrimSpace(list) == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(list, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == want {
			return true
		}
	}
	return false
}

// SetExpires sets the Expires header.
func SetExpires(h http.Header, t time.Time) {
	h.Set("Expires", t.UTC().Format(http.TimeFormat))
}
