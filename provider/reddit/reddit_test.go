package reddit

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/alanbriolat/media-archiver/util"
)

func TestMatch(t *testing.T) {
	assert := assert_.New(t)

	u, _ := util.ParseLenient("https://v.redd.it/abc123/DASH_480.mp4")
	id, err := Match(u)
	assert.NoError(err)
	assert.Equal("abc123", id)

	u, _ = util.ParseLenient("https://i.redd.it/abc123.jpg")
	_, err = Match(u)
	assert.ErrorIs(err, ErrUnrecognisedHost)
}

func TestURLShapes(t *testing.T) {
	assert := assert_.New(t)

	assert.True(IsBareBase("https://v.redd.it/abc123"))
	assert.True(IsBareBase("https://v.redd.it/abc123/"))
	assert.False(IsBareBase("https://v.redd.it/abc123/DASH_720.mp4"))
	assert.False(IsBareBase("https://packaged-media.redd.it/abc123"))

	assert.True(IsPackagedMedia("https://packaged-media.redd.it/abc123/pb/m2-res_720p.mp4"))
	assert.False(IsPackagedMedia("https://v.redd.it/abc123"))

	assert.True(IsVideoHost("v.redd.it/abc123"))
	assert.False(IsVideoHost("https://www.reddit.com/r/videos"))
}
