package download

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/storage"
	"github.com/alanbriolat/media-archiver/util"
)

const (
	DefaultProviderTemplate = "{{.Provider}}_{{.ID}}{{with .Quality}}_{{.}}{{end}}"
	DefaultTitleTemplate    = "{{.Title}}{{with .Subreddit}}_{{.}}{{end}}{{with .Author}}_{{.}}{{end}}{{with .Quality}}_{{.}}{{end}}"

	untitled = "untitled"
)

// NameArgs are the fields available to filename templates, already reduced to filename-safe characters.
type NameArgs struct {
	Provider  string
	ID        string
	Title     string
	Subreddit string
	Author    string
	Quality   string
}

// A Namer builds filename stems from templates: one for assets a provider recognised, one for everything else.
type Namer struct {
	provider *template.Template
	titled   *template.Template
}

func NewNamer(providerTemplate, titleTemplate string) (*Namer, error) {
	provider, err := template.New("provider").Parse(providerTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid provider filename template: %w", err)
	}
	titled, err := template.New("titled").Parse(titleTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid title filename template: %w", err)
	}
	return &Namer{provider: provider, titled: titled}, nil
}

func DefaultNamer() *Namer {
	return &Namer{
		provider: template.Must(template.New("provider").Parse(DefaultProviderTemplate)),
		titled:   template.Must(template.New("titled").Parse(DefaultTitleTemplate)),
	}
}

// Stem renders the filename, without extension, for item.
func (n *Namer) Stem(item Item) (string, error) {
	args := NameArgs{
		Provider:  util.SanitizeFilename(item.Asset.Provider),
		ID:        util.SanitizeFilename(item.Asset.ID),
		Title:     util.SanitizeFilename(item.Title),
		Subreddit: util.SanitizeFilename(item.Subreddit),
		Author:    util.SanitizeFilename(item.Author),
		Quality:   util.SanitizeFilename(item.Selection.Quality),
	}
	if args.Title == "" {
		args.Title = fallbackTitle(item)
	}
	tmpl := n.titled
	if item.Asset.IsProvider() {
		tmpl = n.provider
	}
	builder := strings.Builder{}
	if err := tmpl.Execute(&builder, &args); err != nil {
		return "", err
	}
	stem := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, strings.TrimSpace(builder.String()))
	if stem == "" || strings.Trim(stem, ".") == "" {
		return untitled, nil
	}
	return stem, nil
}

// Name is Stem plus ext, falling back to a generic stem if the template fails.
func (n *Namer) Name(item Item, ext string) string {
	stem, err := n.Stem(item)
	if err != nil {
		stem = untitled
	}
	return stem + ext
}

func fallbackTitle(item Item) string {
	u := item.Selection.URL.UnwrapOr(item.SourceURL)
	if filename, err := util.FilenameFromURLString(u); err == nil {
		if stem := util.SanitizeFilename(strings.TrimSuffix(filename, extOf(filename))); stem != "" {
			return stem
		}
	}
	return untitled
}

func extOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[i:]
	}
	return ""
}

// chooseExtension picks a file extension from the fetched URL, then the response Content-Type, then the kind's
// default.
func chooseExtension(rawURL string, contentType string, kind media_archiver.MediaKind) string {
	if u, err := util.ParseLenient(rawURL); err == nil {
		if ext := util.Extension(u); isMediaExtension(ext) {
			return ext
		}
	}
	if ext := storage.ExtensionFromContentType(contentType); ext != "" && ext != ".txt" {
		return ext
	}
	return kind.DefaultExtension()
}

func isMediaExtension(ext string) bool {
	if ext == "" {
		return false
	}
	contentType := storage.ContentTypeFromName(ext)
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}
