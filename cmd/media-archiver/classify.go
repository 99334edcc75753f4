package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/classify"
	"github.com/alanbriolat/media-archiver/quality"
)

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "show how URLs would be classified, grouped and selected, without downloading",
		ArgsUsage: "URL...",
		Action: func(c *cli.Context) error {
			urls := c.Args().Slice()
			if len(urls) == 0 {
				return cli.Exit("expected at least one URL", 2)
			}
			registry := &media_archiver.DefaultProviderRegistry
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, u := range urls {
				fmt.Fprintf(w, "%v\t%v\t%v\n", classify.Classify(u), registry.Canonicalize(u), u)
			}
			fmt.Fprintln(w)
			selector := quality.Default()
			for _, group := range registry.Group(urls) {
				selection := selector.Select(group.VariantURLs)
				switch {
				case selection.NeedsReview:
					fmt.Fprintf(w, "%v\t(needs review)\n", group.CanonicalID())
				case selection.URL.IsNone():
					fmt.Fprintf(w, "%v\t(no viable URL)\n", group.CanonicalID())
				default:
					fmt.Fprintf(w, "%v\t%v\t%v\n", group.CanonicalID(), selection.Rule, selection.URL.Unwrap())
				}
			}
			return w.Flush()
		},
	}
}
