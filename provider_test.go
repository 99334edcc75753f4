package media_archiver_test

import (
	"errors"
	"net/url"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/provider/reddit"
	"github.com/alanbriolat/media-archiver/provider/redgifs"
)

func newRegistry() *media_archiver.ProviderRegistry {
	r := &media_archiver.ProviderRegistry{}
	r.MustAdd(reddit.New())
	r.MustAdd(redgifs.New())
	return r
}

func TestProviderRegistry_Add(t *testing.T) {
	assert := assert_.New(t)
	r := &media_archiver.ProviderRegistry{}
	match := func(*url.URL) (string, error) { return "", errors.New("never") }

	assert.ErrorIs(r.Add(media_archiver.Provider{Name: "x"}), media_archiver.ErrInvalidProvider)
	assert.ErrorIs(r.Add(media_archiver.Provider{Match: match}), media_archiver.ErrInvalidProvider)
	assert.NoError(r.Create("a", match))
	assert.ErrorIs(r.Create("a", match), media_archiver.ErrDuplicateProvider)
	assert.NoError(r.Add(media_archiver.Provider{Name: "b", Match: match}.WithPriority(media_archiver.PriorityHighest)))
	assert.Equal([]string{"b", "a"}, r.List())
	assert.NoError(r.SetPriority("b", media_archiver.PriorityLowest))
	assert.Equal([]string{"a", "b"}, r.List())
	assert.ErrorIs(r.SetPriority("c", 0), media_archiver.ErrUnknownProvider)
}

func TestProviderRegistry_Priority(t *testing.T) {
	assert := assert_.New(t)
	r := &media_archiver.ProviderRegistry{}
	same := func(*url.URL) (string, error) { return "same", nil }
	r.MustAdd(media_archiver.Provider{Name: "late", Match: same})
	r.MustAdd(media_archiver.Provider{Name: "early", Match: same, Priority: -1})

	id, err := r.Match("https://example.com/x")
	assert.NoError(err)
	assert.Equal("early_same", id.String())

	id, err = r.MatchWith("late", "https://example.com/x")
	assert.NoError(err)
	assert.Equal("late_same", id.String())

	_, err = r.MatchWith("missing", "https://example.com/x")
	assert.ErrorIs(err, media_archiver.ErrUnknownProvider)
}

func TestProviderRegistry_NoMatch(t *testing.T) {
	assert := assert_.New(t)
	r := newRegistry()
	_, err := r.Match("https://example.com/video.mp4")
	assert.ErrorIs(err, media_archiver.ErrNoMatch)
	assert.Contains(err.Error(), "[reddit]")
	assert.Contains(err.Error(), "[redgifs]")
}

func TestCanonicalize(t *testing.T) {
	r := newRegistry()
	tests := []struct {
		url      string
		expected string
	}{
		{"https://v.redd.it/abc123", "reddit_abc123"},
		{"https://v.redd.it/abc123/DASH_720.mp4?source=fallback", "reddit_abc123"},
		{"https://packaged-media.redd.it/abc123/pb/m2-res_480p.mp4?m=DASHPlaylist.mpd&v=1", "reddit_abc123"},
		{"https://www.redgifs.com/watch/SomeGifName", "redgifs_somegifname"},
		{"https://redgifs.com/ifr/somegifname", "redgifs_somegifname"},
		{"https://thumbs2.redgifs.com/SomeGifName-mobile.mp4", "redgifs_somegifname"},
		{"https://media.redgifs.com/SomeGifName.mp4", "redgifs_somegifname"},
		{"https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"https://v.redd.it/", "https://v.redd.it/"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert_.Equal(t, tt.expected, r.Canonicalize(tt.url).String())
		})
	}
}

func TestGroup(t *testing.T) {
	assert := assert_.New(t)
	r := newRegistry()
	urls := []string{
		"https://v.redd.it/abc123",
		"https://i.imgur.com/x.jpg",
		"https://packaged-media.redd.it/abc123/pb/m2-res_480p.mp4",
		"https://www.redgifs.com/watch/funnycat",
		"https://packaged-media.redd.it/abc123/pb/m2-res_720p.mp4",
		"https://v.redd.it/abc123",
		"",
		"https://i.imgur.com/y.jpg",
	}
	groups := r.Group(urls)
	if !assert.Len(groups, 4) {
		return
	}

	assert.Equal("reddit_abc123", groups[0].CanonicalID())
	assert.Equal([]string{
		"https://v.redd.it/abc123",
		"https://packaged-media.redd.it/abc123/pb/m2-res_480p.mp4",
		"https://packaged-media.redd.it/abc123/pb/m2-res_720p.mp4",
	}, groups[0].VariantURLs)
	assert.False(groups[1].IsProvider())
	assert.Equal("https://i.imgur.com/x.jpg", groups[1].CanonicalID())
	assert.Equal("redgifs_funnycat", groups[2].CanonicalID())
	assert.Equal("https://i.imgur.com/y.jpg", groups[3].CanonicalID())

	byID := media_archiver.ByID(groups)
	assert.Len(byID, 4)
	assert.Same(groups[2], byID["redgifs_funnycat"])

	// Every variant canonicalises to its group's ID, every time
	for _, g := range groups {
		for _, u := range g.VariantURLs {
			assert.Equal(g.CanonicalID(), r.Canonicalize(u).String())
			assert.Equal(r.Canonicalize(u), r.Canonicalize(u))
		}
	}
}

func TestParseMediaKind(t *testing.T) {
	assert := assert_.New(t)
	k, err := media_archiver.ParseMediaKind("VIDEO")
	assert.NoError(err)
	assert.Equal(media_archiver.KindVideo, k)
	assert.True(k.IsFetchable())
	assert.False(media_archiver.KindText.IsFetchable())
	assert.Equal(".gif", media_archiver.KindGIF.DefaultExtension())
	_, err = media_archiver.ParseMediaKind("audio")
	assert.Error(err)
}
