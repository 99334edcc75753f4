// Package classify maps raw URLs to a media_archiver.MediaKind using an ordered table of pattern rules. Some URLs
// satisfy several surface patterns (e.g. .gifv on an image host), so the first matching rule wins.
package classify

import (
	"net/url"
	"strings"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/provider/reddit"
	"github.com/alanbriolat/media-archiver/provider/redgifs"
	"github.com/alanbriolat/media-archiver/util"
)

var protocols = generic.NewSet("http", "https")

// A Rule assigns Kind to any URL for which Match returns true.
type Rule struct {
	Name  string
	Kind  media_archiver.MediaKind
	Match func(*url.URL) bool
}

// ExtensionOrHost builds a Rule matching a set of file extensions (with leading dot) or hosts (including their
// subdomains).
func ExtensionOrHost(name string, kind media_archiver.MediaKind, extensions []string, hosts []string) Rule {
	extensionSet := generic.NewSet(extensions...)
	return Rule{
		Name: name,
		Kind: kind,
		Match: func(u *url.URL) bool {
			return extensionSet.Contains(util.Extension(u)) || util.HostMatches(u, hosts...)
		},
	}
}

var (
	GIFRule = ExtensionOrHost("gif", media_archiver.KindGIF,
		[]string{".gif", ".gifv"},
		[]string{"giphy.com", "gfycat.com", "tenor.com"},
	)
	ImageRule = ExtensionOrHost("image", media_archiver.KindImage,
		[]string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".tiff"},
		[]string{"i.redd.it", "i.imgur.com", "pbs.twimg.com"},
	)
	VideoRule = ExtensionOrHost("video", media_archiver.KindVideo,
		[]string{".mp4", ".webm", ".mov", ".avi", ".mkv"},
		[]string{reddit.VideoHost, reddit.PackagedMediaHost, redgifs.Host},
	)
)

// A Classifier evaluates its rules in order; a URL matching no rule is KindText.
type Classifier struct {
	rules []Rule
}

func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a Classifier with the built-in rules: gif, then image, then video.
func Default() *Classifier {
	return New(GIFRule, ImageRule, VideoRule)
}

// With returns a copy of the Classifier with extra rules appended after the existing ones.
func (c *Classifier) With(rules ...Rule) *Classifier {
	combined := make([]Rule, 0, len(c.rules)+len(rules))
	combined = append(combined, c.rules...)
	combined = append(combined, rules...)
	return New(combined...)
}

// Rules returns the names of the rules in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		names = append(names, r.Name)
	}
	return names
}

// Classify never fails: strings that aren't http(s) URLs are KindUnsupported, and URLs no rule recognises are
// KindText.
func (c *Classifier) Classify(s string) media_archiver.MediaKind {
	u, err := util.ParseLenient(s)
	if err != nil || !protocols.Contains(strings.ToLower(u.Scheme)) || u.Host == "" {
		return media_archiver.KindUnsupported
	}
	for _, r := range c.rules {
		if r.Match(u) {
			return r.Kind
		}
	}
	return media_archiver.KindText
}

// Reference classifies a URL into a MediaReference.
func (c *Classifier) Reference(title string, s string) media_archiver.MediaReference {
	return media_archiver.MediaReference{
		Title:     title,
		SourceURL: strings.TrimSpace(s),
		Kind:      c.Classify(s),
	}
}

var defaultClassifier = Default()

// Classify uses the default rules.
func Classify(s string) media_archiver.MediaKind {
	return defaultClassifier.Classify(s)
}
