package models

import (
	"net/url"
	"strings"
	"time"
)

const (
	MinShortURLNameLength = 2
	MaxShortURLNameLength = 16
)

// ShortURLName is the path segment a short URL is reached by. Names are
// compared case-insensitively.
type ShortURLName string

// NewShortURLName validates s.
func NewShortURLName(s string) (ShortURLName, error) {
	if len(s) < MinShortURLNameLength || len(s) > MaxShortURLNameLength {
		return "", ErrInvalidShortURLName
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '-', c == '_':
		default:
			return "", ErrInvalidShortURLName
		}
	}
	return ShortURLName(s), nil
}

func (n ShortURLName) String() string { return string(n) }

// Equal compares ignoring case.
func (n ShortURLName) Equal(o ShortURLName) bool {
	return strings.EqualFold(string(n), string(o))
}

// URL is the target of a short URL: absolute, http or https, and without
// user info.
type URL struct {
	u *url.URL
}

// ParseURL validates s as a short URL target.
func ParseURL(s string) (URL, error) {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return URL{}, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return URL{}, ErrInvalidURL
	}
	if u.User != nil {
		return URL{}, ErrInvalidURL
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return URL{u: u}, nil
}

func (u URL) String() string {
	if u.u == nil {
		return ""
	}
	return u.u.String()
}

// URL returns a copy of the parsed url.
func (u URL) URL() *url.URL {
	if u.u == nil {
		return nil
	}
	c := *u.u
	return &c
}

// ShortURL maps a name to a target URL.
type ShortURL struct {
	Name ShortURLName
	URL  URL
	// LastModified is the zero time when the record predates modification
	// tracking.
	LastModified time.Time
}
