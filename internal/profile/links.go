package profile

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("must be a valid URL")

// NormalizeURL canonicalizes a user-supplied link: https scheme, lower-case
// host, no credentials, no default port, no trailing slash, no fragment.
// Empty input stays empty.
//
//	example.com, http://example.com and https://example.com/ all become https://example.com
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}

	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case !strings.Contains(s, "://"):
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", ErrInvalidURL
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || strings.ContainsAny(host, " \t") {
		return "", ErrInvalidURL
	}

	port := u.Port()
	if port == "80" || port == "443" {
		port = ""
	}

	u.Scheme = "https"
	u.Host = host
	if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		// IPv6 literal
		u.Host = "[" + host + "]"
	}

	// trim on the escaped form so an encoded slash (%2F) is kept as written
	escaped := strings.TrimRight(u.EscapedPath(), "/")
	path, err := url.PathUnescape(escaped)
	if err != nil {
		return "", ErrInvalidURL
	}
	u.Path = path
	u.RawPath = escaped

	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	u.ForceQuery = false

	return u.String(), nil
}
