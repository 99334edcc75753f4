package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

const listing = `https://i.redd.it/orphan.jpg

# Amazing Post	r/funny	u/someone
https://v.redd.it/abc123
  https://packaged-media.redd.it/abc123/pb/m2-res_720p.mp4  

# Just a title
https://redgifs.com/watch/FunnyCat
#	pics
https://i.imgur.com/x.png
`

func TestParse(t *testing.T) {
	assert := assert_.New(t)
	posts, err := Parse(strings.NewReader(listing))
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]Post{
		{URLs: []string{"https://i.redd.it/orphan.jpg"}},
		{
			Title:     "Amazing Post",
			Subreddit: "funny",
			Author:    "someone",
			URLs:      []string{"https://v.redd.it/abc123", "https://packaged-media.redd.it/abc123/pb/m2-res_720p.mp4"},
		},
		{Title: "Just a title", URLs: []string{"https://redgifs.com/watch/FunnyCat"}},
		{Subreddit: "pics", URLs: []string{"https://i.imgur.com/x.png"}},
	}, posts)
}

func TestParse_Empty(t *testing.T) {
	assert := assert_.New(t)
	posts, err := Parse(strings.NewReader("\n\n"))
	assert.NoError(err)
	assert.Empty(posts)

	posts, err = Parse(strings.NewReader("# title only\n"))
	assert.NoError(err)
	assert.Equal([]Post{{Title: "title only"}}, posts)
}

func TestParseFile(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "listing.txt")
	_ = os.WriteFile(path, []byte(listing), 0644)
	posts, err := ParseFile(path)
	assert.NoError(err)
	assert.Len(posts, 4)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(err)
}

func TestFromURLs(t *testing.T) {
	assert := assert_.New(t)
	posts := FromURLs([]string{"https://a.example/1.jpg", " ", "https://b.example/2.jpg"})
	assert.Equal([]Post{
		{URLs: []string{"https://a.example/1.jpg"}},
		{URLs: []string{"https://b.example/2.jpg"}},
	}, posts)
}
