// Package providers registers every built-in provider with media_archiver.DefaultProviderRegistry; import it for
// side effects.
package providers

import (
	_ "github.com/alanbriolat/media-archiver/provider/reddit"
	_ "github.com/alanbriolat/media-archiver/provider/redgifs"
)
