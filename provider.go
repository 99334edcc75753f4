package media_archiver

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/util"
)

var (
	ErrDuplicateProvider = errors.New("duplicate provider name")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrNoMatch           = errors.New("no provider matched the input")
	ErrUnknownProvider   = errors.New("unknown provider")
)

var (
	PriorityHighest int16 = math.MinInt16
	PriorityDefault int16 = 0
	PriorityLowest  int16 = math.MaxInt16
)

// MatchFunc extracts the provider's opaque asset ID from a URL, or returns an error if the URL is not one the
// provider recognises.
type MatchFunc = func(*url.URL) (string, error)

// A Provider recognises the URLs of one media host, mapping every quality/resolution variant of an asset to the
// same opaque ID.
type Provider struct {
	Name  string
	Match MatchFunc
	// Priority of the matcher, lower (including negative) means matching earlier.
	Priority int16
}

func (p Provider) WithName(name string) Provider {
	p.Name = name
	return p
}

func (p Provider) WithPriority(priority int16) Provider {
	p.Priority = priority
	return p
}

// A ProviderRegistry is a collection of Provider instances which can be used to try to match URLs. It should be
// fully populated before use; matching does not modify it, so a populated registry is safe for concurrent use.
type ProviderRegistry struct {
	providers   []*Provider
	providerMap map[string]*Provider
}

// Add registers a Provider with the ProviderRegistry. Provider.Name and Provider.Match must be set, and
// Provider.Name must be unique within the ProviderRegistry.
func (r *ProviderRegistry) Add(p Provider) error {
	if r.providerMap == nil {
		r.providerMap = make(map[string]*Provider)
	}
	if p.Name == "" || p.Match == nil {
		return ErrInvalidProvider
	}
	if _, ok := r.providerMap[p.Name]; ok {
		return ErrDuplicateProvider
	}
	r.providerMap[p.Name] = &p
	r.providers = append(r.providers, r.providerMap[p.Name])
	r.sortByPriority()
	return nil
}

// Create is a shortcut for Add(Provider{Name: ..., Match: ...}).
func (r *ProviderRegistry) Create(name string, f MatchFunc) error {
	return r.Add(Provider{
		Name:  name,
		Match: f,
	})
}

// List returns the names of registered providers in priority order.
func (r *ProviderRegistry) List() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name)
	}
	return names
}

// Match a URL against each Provider in priority order. If nothing matches, the error is ErrNoMatch combined with
// each provider's reason.
func (r *ProviderRegistry) Match(s string) (AssetID, error) {
	parsedURL, err := util.ParseLenient(s)
	if err != nil {
		return AssetID{}, multierror.Append(ErrNoMatch, err)
	}
	var result error = ErrNoMatch
	for _, p := range r.providers {
		if id, err := p.Match(parsedURL); err == nil && id != "" {
			return AssetID{Provider: p.Name, ID: id}, nil
		} else if err != nil {
			result = multierror.Append(result, multierror.Prefix(err, fmt.Sprintf("[%v]", p.Name)))
		}
	}
	return AssetID{}, result
}

// MatchWith will attempt to match a URL against a specific provider.
func (r *ProviderRegistry) MatchWith(name string, s string) (AssetID, error) {
	p, ok := r.providerMap[name]
	if !ok {
		return AssetID{}, ErrUnknownProvider
	}
	parsedURL, err := util.ParseLenient(s)
	if err != nil {
		return AssetID{}, ErrNoMatch
	}
	if id, err := p.Match(parsedURL); err == nil && id != "" {
		return AssetID{Provider: p.Name, ID: id}, nil
	}
	return AssetID{}, ErrNoMatch
}

// MustAdd wraps Add but panics if there is an error.
func (r *ProviderRegistry) MustAdd(p Provider) {
	generic.Unwrap_(r.Add(p))
}

// SetPriority adjust the priority of a named Provider.
func (r *ProviderRegistry) SetPriority(name string, priority int16) error {
	if p, ok := r.providerMap[name]; ok {
		p.Priority = priority
		r.sortByPriority()
		return nil
	} else {
		return ErrUnknownProvider
	}
}

func (r *ProviderRegistry) sortByPriority() {
	sort.SliceStable(r.providers, func(i, j int) bool {
		return r.providers[i].Priority < r.providers[j].Priority
	})
}

var DefaultProviderRegistry ProviderRegistry
