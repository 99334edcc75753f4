package util

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

var (
	ErrNoFilename = errors.New("cannot extract valid filename")
	ErrNoSegment  = errors.New("URL has no path segment")
)

// ParseLenient parses s as a URL, assuming https:// when the scheme is missing (e.g. "i.redd.it/abc.jpg").
func ParseLenient(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty URL")
	}
	if strings.Contains(s, "://") {
		return url.Parse(s)
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Opaque != "" {
		return u, nil
	}
	return url.Parse("https://" + strings.TrimPrefix(s, "//"))
}

// HostMatches returns true if u's hostname is one of hosts, or a subdomain of one of them.
func HostMatches(u *url.URL, hosts ...string) bool {
	if u == nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// PathSegments returns the non-empty path components of u, query string excluded.
func PathSegments(u *url.URL) []string {
	if u == nil {
		return nil
	}
	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// FirstPathSegment returns the path component immediately following the host.
func FirstPathSegment(u *url.URL) (string, error) {
	segments := PathSegments(u)
	if len(segments) == 0 {
		return "", ErrNoSegment
	}
	return segments[0], nil
}

// Extension returns the lower-cased extension of the last path component, including the dot, or "".
func Extension(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func FilenameFromURL(url *url.URL) (string, error) {
	if url == nil {
		return "", ErrNoFilename
	}
	path := strings.Trim(url.Path, "/")
	if path == "" {
		return "", ErrNoFilename
	}
	pathElements := strings.Split(path, "/")
	filename := pathElements[len(pathElements)-1]
	if filename == "" {
		return "", ErrNoFilename
	}
	// Don't allow "filenames" that are just ".", "..", etc.
	if strings.ReplaceAll(filename, ".", "") == "" {
		return "", ErrNoFilename
	}
	return filename, nil
}

func FilenameFromURLString(s string) (string, error) {
	if parsedURL, err := ParseLenient(s); err != nil {
		return "", err
	} else {
		return FilenameFromURL(parsedURL)
	}
}
