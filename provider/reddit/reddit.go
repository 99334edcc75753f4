// Package reddit recognises Reddit-hosted video. Every rendition of a Reddit video shares the opaque ID that
// follows the host, e.g. https://v.redd.it/{ID}/DASH_720.mp4 and https://packaged-media.redd.it/{ID}/pb/m2-res_720p.mp4.
package reddit

import (
	"errors"
	"net/url"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/util"
)

const (
	Name              = "reddit"
	VideoHost         = "v.redd.it"
	PackagedMediaHost = "packaged-media.redd.it"
)

var ErrUnrecognisedHost = errors.New("unrecognised hostname")

func Match(u *url.URL) (string, error) {
	if !util.HostMatches(u, VideoHost, PackagedMediaHost) {
		return "", ErrUnrecognisedHost
	}
	return util.FirstPathSegment(u)
}

func New() media_archiver.Provider {
	return media_archiver.Provider{Name: Name, Match: Match}
}

// IsVideoHost returns true for URLs on either Reddit video host.
func IsVideoHost(s string) bool {
	u, err := util.ParseLenient(s)
	return err == nil && util.HostMatches(u, VideoHost, PackagedMediaHost)
}

// IsPackagedMedia returns true for packaged (muxed audio+video) renditions, which download as a single file.
func IsPackagedMedia(s string) bool {
	u, err := util.ParseLenient(s)
	return err == nil && util.HostMatches(u, PackagedMediaHost)
}

// IsBareBase returns true for https://v.redd.it/{ID} with nothing after the ID. That URL serves an HTML landing page
// rather than video, so it can never be downloaded directly.
func IsBareBase(s string) bool {
	u, err := util.ParseLenient(s)
	if err != nil || !util.HostMatches(u, VideoHost) {
		return false
	}
	return len(util.PathSegments(u)) == 1
}

func init() {
	media_archiver.DefaultProviderRegistry.MustAdd(New())
}
