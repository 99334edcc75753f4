// Package input reads post listings: the titles and URLs handed over by whatever enumerated the source posts.
//
// A listing is line oriented. A line starting with "#" begins a new post and carries its metadata as
// "# title<TAB>subreddit<TAB>author" (subreddit and author optional); each following non-blank line is one URL
// belonging to that post.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type Post struct {
	Title     string
	Subreddit string
	Author    string
	URLs      []string
}

// Parse reads a listing. URLs appearing before any title line belong to an untitled post.
func Parse(r io.Reader) ([]Post, error) {
	var posts []Post
	var current *Post
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			posts = append(posts, parseHeader(strings.TrimPrefix(line, "#")))
			current = &posts[len(posts)-1]
		default:
			if current == nil {
				posts = append(posts, Post{})
				current = &posts[len(posts)-1]
			}
			current.URLs = append(current.URLs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}
	return posts, nil
}

func parseHeader(s string) Post {
	fields := strings.Split(s, "\t")
	post := Post{Title: strings.TrimSpace(fields[0])}
	if len(fields) > 1 {
		post.Subreddit = strings.TrimPrefix(strings.TrimSpace(fields[1]), "r/")
	}
	if len(fields) > 2 {
		post.Author = strings.TrimPrefix(strings.TrimSpace(fields[2]), "u/")
	}
	return post
}

func ParseFile(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// FromURLs wraps each URL in its own untitled post.
func FromURLs(urls []string) []Post {
	posts := make([]Post, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			posts = append(posts, Post{URLs: []string{u}})
		}
	}
	return posts
}
