package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func nameGenerator() gopter.Gen {
	return gen.RegexMatch(fmt.Sprintf("[A-Za-z0-9_-]{%d}", MaxShortURLNameLength))
}

func TestShortURLName(t *testing.T) {
	for i, test := range []struct {
		name  string
		valid bool
	}{
		{"gh", true},
		{"GH", true},
		{"a-b_c", true},
		{"0123456789abcdef", true},
		{"", false},
		{"x", false},
		{"0123456789abcdefg", false},
		{"has.dot", false},
		{"sp ace", false},
		{"slash/", false},
		{"ümlaut", false},
		{"%41%42", false},
	} {
		n, err := NewShortURLName(test.name)
		if test.valid && (err != nil || n.String() != test.name) {
			t.Errorf("Test %d: expected %q to be valid, got %v", i, test.name, err)
		}
		if !test.valid && !errors.Is(err, ErrInvalidShortURLName) {
			t.Errorf("Test %d: expected %q to be rejected, got %v", i, test.name, err)
		}
	}
}

func TestShortURLNameProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("names of valid characters are valid between the length bounds", prop.ForAll(
		func(s string, n int) bool {
			s = s[:n]
			_, err := NewShortURLName(s)
			valid := n >= MinShortURLNameLength
			return (err == nil) == valid
		},
		nameGenerator(),
		gen.IntRange(0, MaxShortURLNameLength),
	))

	properties.Property("names equal their upper and lower case forms", prop.ForAll(
		func(s string) bool {
			n := ShortURLName(s)
			return n.Equal(ShortURLName(strings.ToUpper(s))) && n.Equal(ShortURLName(strings.ToLower(s)))
		},
		nameGenerator(),
	))

	properties.Property("a changed name is never equal", prop.ForAll(
		func(s string) bool {
			return !ShortURLName(s).Equal(ShortURLName(s + "x"))
		},
		nameGenerator(),
	))

	properties.TestingRun(t)
}

func TestParseURL(t *testing.T) {
	for i, test := range []struct {
		in   string
		want string
	}{
		{"https://github.com", "https://github.com/"},
		{"http://example.com/a/b?c=d#e", "http://example.com/a/b?c=d#e"},
		{"https://EXAMPLE.com:8443/x", "https://EXAMPLE.com:8443/x"},
		{"https://[::1]/", "https://[::1]/"},
	} {
		u, err := ParseURL(test.in)
		if err != nil {
			t.Errorf("Test %d: unexpected error for %q: %v", i, test.in, err)
			continue
		}
		if u.String() != test.want {
			t.Errorf("Test %d: expected %q, got %q", i, test.want, u.String())
		}
	}

	for i, in := range []string{
		"",
		"/relative",
		"github.com",
		"ftp://example.com/",
		"javascript:alert(1)",
		"mailto:a@example.com",
		"https://user:pw@example.com/",
		"https://user@example.com/",
		"https:///nohost",
		"https://exa mple.com/",
	} {
		if _, err := ParseURL(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Test %d: expected %q to be rejected, got %v", i, in, err)
		}
	}
}

func TestURLCopy(t *testing.T) {
	u, err := ParseURL("https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}
	c := u.URL()
	c.Path = "/changed"
	if u.String() != "https://example.com/a" {
		t.Fatalf("URL() must return a copy, original is now %s", u)
	}

	var zero URL
	if zero.String() != "" || zero.URL() != nil {
		t.Fatalf("zero URL should be empty")
	}
}
