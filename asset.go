package media_archiver

import "strings"

// An AssetID identifies one logical asset regardless of which URL variant refers to it. A zero Provider means no
// provider recognised the URL, and ID is the URL itself.
type AssetID struct {
	Provider string
	ID       string
}

// String gives the canonical ID, e.g. "reddit_abc123".
func (id AssetID) String() string {
	if id.Provider == "" {
		return id.ID
	}
	return id.Provider + "_" + id.ID
}

// IsProvider returns true if the ID was derived by a Provider, rather than falling back to the raw URL.
func (id AssetID) IsProvider() bool {
	return id.Provider != ""
}

// An AssetGroup collects the known URL variants of one asset, in input order.
type AssetGroup struct {
	AssetID
	VariantURLs []string
}

func (g *AssetGroup) CanonicalID() string {
	return g.AssetID.String()
}

func (g *AssetGroup) add(u string) {
	for _, existing := range g.VariantURLs {
		if existing == u {
			return
		}
	}
	g.VariantURLs = append(g.VariantURLs, u)
}

// Canonicalize derives the AssetID of a URL. Unrecognised URLs are their own identity.
func (r *ProviderRegistry) Canonicalize(s string) AssetID {
	s = strings.TrimSpace(s)
	if id, err := r.Match(s); err == nil {
		return id
	}
	return AssetID{ID: s}
}

// Group clusters URLs by canonical ID. Groups are returned in order of first appearance, and each group's variants
// keep their input order, with exact duplicates collapsed.
func (r *ProviderRegistry) Group(urls []string) []*AssetGroup {
	var groups []*AssetGroup
	byID := make(map[string]*AssetGroup)
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		id := r.Canonicalize(u)
		key := id.String()
		g, ok := byID[key]
		if !ok {
			g = &AssetGroup{AssetID: id}
			byID[key] = g
			groups = append(groups, g)
		}
		g.add(u)
	}
	return groups
}

// ByID indexes groups by canonical ID.
func ByID(groups []*AssetGroup) map[string]*AssetGroup {
	m := make(map[string]*AssetGroup, len(groups))
	for _, g := range groups {
		m[g.CanonicalID()] = g
	}
	return m
}
