package media_archiver

import (
	"fmt"
	"strings"
)

// MediaKind is the broad category of media a URL refers to, deciding whether and how it is fetched.
type MediaKind string

const (
	KindImage       MediaKind = "image"
	KindGIF         MediaKind = "gif"
	KindVideo       MediaKind = "video"
	KindText        MediaKind = "text"
	KindUnsupported MediaKind = "unsupported"
)

var allKinds = []MediaKind{KindImage, KindGIF, KindVideo, KindText, KindUnsupported}

// IsFetchable returns true for kinds that are downloaded as binary files.
func (k MediaKind) IsFetchable() bool {
	return k == KindImage || k == KindGIF || k == KindVideo
}

// DefaultExtension is the file extension to use when neither the URL nor the response reveals one.
func (k MediaKind) DefaultExtension() string {
	switch k {
	case KindImage:
		return ".jpg"
	case KindGIF:
		return ".gif"
	case KindVideo:
		return ".mp4"
	default:
		return ".txt"
	}
}

func ParseMediaKind(s string) (MediaKind, error) {
	for _, k := range allKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// A MediaReference is one raw URL from a source post, tagged with its MediaKind.
type MediaReference struct {
	Title     string
	SourceURL string
	Kind      MediaKind
	Subreddit string
	Author    string
}
