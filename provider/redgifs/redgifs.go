// Package redgifs recognises RedGifs URLs: watch pages, embeds and the pre-transcoded mp4 renditions served from
// the thumbs/media subdomains.
package redgifs

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/util"
)

const (
	Name = "redgifs"
	Host = "redgifs.com"
)

var ErrUnrecognisedHost = errors.New("unrecognised hostname")

// Rendition suffixes appended to the ID in media filenames, e.g. AbcDef-mobile.mp4.
var renditionSuffixes = []string{"-mobile", "-silent", "-large", "-small", "-poster"}

func Match(u *url.URL) (string, error) {
	if !util.HostMatches(u, Host) {
		return "", ErrUnrecognisedHost
	}
	segments := util.PathSegments(u)
	if len(segments) == 0 {
		return "", util.ErrNoSegment
	}
	id := segments[0]
	if (id == "watch" || id == "ifr") && len(segments) > 1 {
		id = segments[1]
	}
	id = strings.TrimSuffix(id, path.Ext(id))
	for _, suffix := range renditionSuffixes {
		id = strings.TrimSuffix(id, suffix)
	}
	if id == "" {
		return "", util.ErrNoSegment
	}
	return strings.ToLower(id), nil
}

func New() media_archiver.Provider {
	return media_archiver.Provider{Name: Name, Match: Match}
}

// IsHost returns true for any URL on a RedGifs host.
func IsHost(s string) bool {
	u, err := util.ParseLenient(s)
	return err == nil && util.HostMatches(u, Host)
}

func init() {
	media_archiver.DefaultProviderRegistry.MustAdd(New())
}
