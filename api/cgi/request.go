package cgi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shorty-cgi/shorty/api/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http/httpguts"
)

const headerVarPrefix = "HTTP_"

// Version is an HTTP protocol version as announced in SERVER_PROTOCOL.
type Version struct {
	Major, Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

var (
	HTTP09 = Version{0, 9}
	HTTP10 = Version{1, 0}
	HTTP11 = Version{1, 1}
	HTTP20 = Version{2, 0}
	HTTP30 = Version{3, 0}
)

var versions = map[string]Version{
	"HTTP/0.9": HTTP09,
	"HTTP/1.0": HTTP10,
	"HTTP/1.1": HTTP11,
	"HTTP/2.0": HTTP20,
	"HTTP/3.0": HTTP30,
}

// ParseVersion maps the literal SERVER_PROTOCOL values to a Version.
func ParseVersion(proto string) (Version, bool) {
	v, ok := versions[proto]
	return v, ok
}

type ctxPathInfoKey struct{}

// RequestPathInfo returns the PATH_INFO the request was built with, or "".
func RequestPathInfo(r *http.Request) string {
	s, _ := r.Context().Value(ctxPathInfoKey{}).(string)
	return s
}

// WithPathInfo returns a shallow copy of r carrying pathInfo.
func WithPathInfo(r *http.Request, pathInfo string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxPathInfoKey{}, pathInfo))
}

// IsCGI reports whether the process was started by a web server through CGI.
func IsCGI(env Environment) bool {
	_, ok := Getenv(env, GatewayInterface)
	return ok
}

// BuildRequest reconstructs the HTTP request described by the CGI
// meta-variables in env. Missing mandatory variables fail the whole request,
// malformed HTTP_* headers are dropped.
func BuildRequest(env Environment) (*http.Request, error) {
	return BuildRequestContext(context.Background(), env)
}

// BuildRequestContext is BuildRequest with a parent context for the request.
func BuildRequestContext(ctx context.Context, env Environment) (*http.Request, error) {
	proto, ok := Getenv(env, ServerProtocol)
	if !ok {
		return nil, &MetaVariableError{Key: ServerProtocol}
	}
	version, ok := ParseVersion(proto)
	if !ok {
		return nil, &MetaVariableError{Key: ServerProtocol}
	}

	host, err := mandatory(env, ServerName)
	if err != nil {
		return nil, err
	}
	requestURI, err := mandatory(env, RequestURI)
	if err != nil {
		return nil, err
	}
	// appended to the host, anything but an absolute path would change it
	if requestURI != "" && requestURI[0] != '/' {
		return nil, &MetaVariableError{Key: RequestURI}
	}
	scheme, err := mandatory(env, RequestScheme)
	if err != nil {
		return nil, err
	}

	rawURL := scheme + "://" + host + requestURI
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &URLError{URL: rawURL, Err: err}
	}
	if u.Host == "" {
		return nil, &URLError{URL: rawURL}
	}

	method, err := mandatory(env, RequestMethod)
	if err != nil {
		return nil, err
	}
	if !validMethod(method) {
		return nil, &MetaVariableError{Key: RequestMethod}
	}

	header := headersFromEnv(ctx, env)
	pathInfo, _ := Getenv(env, PathInfo)

	r := &http.Request{
		Method:     method,
		URL:        u,
		Proto:      proto,
		ProtoMajor: version.Major,
		ProtoMinor: version.Minor,
		Header:     header,
		Body:       http.NoBody,
		Host:       u.Host,
		RequestURI: requestURI,
	}
	if addr, ok := Getenv(env, RemoteAddr); ok {
		r.RemoteAddr = addr
		if port, ok := Getenv(env, RemotePort); ok {
			r.RemoteAddr = addr + ":" + port
		}
	}
	r = r.WithContext(context.WithValue(ctx, ctxPathInfoKey{}, pathInfo))
	return r, nil
}

func mandatory(env Environment, key MetaVariable) (string, error) {
	v, ok := Getenv(env, key)
	if !ok {
		return "", &MetaVariableError{Key: key}
	}
	return v, nil
}

func validMethod(method string) bool {
	if method == "" {
		return false
	}
	for _, c := range method {
		if !httpguts.IsTokenRune(c) {
			return false
		}
	}
	return true
}

// headersFromEnv turns HTTP_FOO_BAR=v into Foo-Bar: v. Entries whose name or
// value is not valid on the wire are skipped.
func headersFromEnv(ctx context.Context, env Environment) http.Header {
	header := make(http.Header)
	log := common.Logger(ctx)
	for k, v := range env.Vars() {
		if !strings.HasPrefix(k, headerVarPrefix) {
			continue
		}
		name := strings.ReplaceAll(k[len(headerVarPrefix):], "_", "-")
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(v) {
			common.DroppedHeaders.Inc()
			log.WithFields(logrus.Fields{"variable": k}).Debug("dropping malformed request header")
			continue
		}
		header.Add(name, v)
	}
	return header
}
