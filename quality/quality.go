// Package quality picks the single best URL out of the variants of one asset. Selection is an ordered list of
// strategies; the first one to reach a decision wins, so the priority contract can be read (and tested) rule by
// rule.
package quality

import (
	"strings"

	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/provider/reddit"
	"github.com/alanbriolat/media-archiver/provider/redgifs"
)

// ResolutionTokens in descending order of quality.
var ResolutionTokens = []string{"1080p", "720p", "480p", "360p", "240p", "220p"}

// A Decision is a strategy's verdict. NeedsReview means "stop, and select nothing".
type Decision struct {
	URL         string
	Quality     string
	NeedsReview bool
}

type Strategy interface {
	Name() string
	// Decide returns false if the strategy has no opinion about these variants.
	Decide(variants []string) (Decision, bool)
}

type strategyFunc struct {
	name string
	f    func([]string) (Decision, bool)
}

func (s strategyFunc) Name() string {
	return s.name
}

func (s strategyFunc) Decide(variants []string) (Decision, bool) {
	return s.f(variants)
}

// NewStrategy adapts a function to the Strategy interface.
func NewStrategy(name string, f func([]string) (Decision, bool)) Strategy {
	return strategyFunc{name: name, f: f}
}

// ResolutionToken picks the first variant containing the best available token.
func ResolutionToken(tokens ...string) Strategy {
	return NewStrategy("resolution", func(variants []string) (Decision, bool) {
		for _, token := range tokens {
			for _, v := range variants {
				if strings.Contains(v, token) && !reddit.IsBareBase(v) {
					return Decision{URL: v, Quality: token}, true
				}
			}
		}
		return Decision{}, false
	})
}

// MixedProviders stops selection when RedGifs and Reddit variants appear together: without a resolution token
// there's no principled way to prefer one over the other.
var MixedProviders = NewStrategy("mixed-providers", func(variants []string) (Decision, bool) {
	var hasRedgifs, hasReddit bool
	for _, v := range variants {
		hasRedgifs = hasRedgifs || redgifs.IsHost(v)
		hasReddit = hasReddit || reddit.IsVideoHost(v)
	}
	if hasRedgifs && hasReddit {
		return Decision{NeedsReview: true}, true
	}
	return Decision{}, false
})

// PreferRedgifs picks the first RedGifs variant; those are pre-transcoded and reliable.
var PreferRedgifs = firstWhere("redgifs", redgifs.IsHost)

// PreferPackaged picks the first Reddit packaged-media variant.
var PreferPackaged = firstWhere("packaged-media", reddit.IsPackagedMedia)

// FirstUsable picks the first variant that isn't a bare base URL.
var FirstUsable = firstWhere("first-usable", func(v string) bool {
	return !reddit.IsBareBase(v)
})

func firstWhere(name string, pred func(string) bool) Strategy {
	return NewStrategy(name, func(variants []string) (Decision, bool) {
		for _, v := range variants {
			if pred(v) {
				return Decision{URL: v}, true
			}
		}
		return Decision{}, false
	})
}

// A Selection is the outcome of selecting from one asset's variants. URL is None when nothing is downloadable.
type Selection struct {
	URL         generic.Option[string]
	Quality     string
	Rule        string
	NeedsReview bool
}

type Selector struct {
	strategies []Strategy
}

func New(strategies ...Strategy) *Selector {
	return &Selector{strategies: strategies}
}

// Default returns the built-in cascade: resolution token, mixed-provider review, RedGifs, packaged media, then any
// variant that isn't a bare base URL.
func Default() *Selector {
	return New(
		ResolutionToken(ResolutionTokens...),
		MixedProviders,
		PreferRedgifs,
		PreferPackaged,
		FirstUsable,
	)
}

// Strategies returns the strategy names in evaluation order.
func (s *Selector) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		names = append(names, strategy.Name())
	}
	return names
}

func (s *Selector) Select(variants []string) Selection {
	cleaned := make([]string, 0, len(variants))
	for _, v := range variants {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return Selection{URL: generic.None[string]()}
	}
	for _, strategy := range s.strategies {
		d, ok := strategy.Decide(cleaned)
		if !ok {
			continue
		}
		if d.NeedsReview {
			return Selection{URL: generic.None[string](), Rule: strategy.Name(), NeedsReview: true}
		}
		return Selection{URL: generic.Some(d.URL), Quality: d.Quality, Rule: strategy.Name()}
	}
	return Selection{URL: generic.None[string]()}
}

var defaultSelector = Default()

// SelectBest returns the best variant according to the default cascade, or None if no variant is usable.
func SelectBest(variants []string) generic.Option[string] {
	return defaultSelector.Select(variants).URL
}
