package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Listing is the classified content of one directory page.
type Listing struct {
	URL   string   // Directory URL the listing was fetched from
	Dirs  []string // Absolute sub-directory URLs, in page order
	Files []string // Absolute file URLs, in page order
}

// FilesNamed returns the files whose last path segment equals name.
func (l *Listing) FilesNamed(name string) []string {
	var out []string
	for _, f := range l.Files {
		if path.Base(strings.TrimRight(f, "/")) == name {
			out = append(out, f)
		}
	}
	return out
}

// List fetches the directory page at dirURL and classifies its entries.
func (c *Client) List(ctx context.Context, dirURL string) (*Listing, error) {
	body, err := c.Fetch(ctx, NamespaceListing, dirURL, false)
	if err != nil {
		return nil, err
	}
	listing, err := ParseListing(dirURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", dirURL, err)
	}
	return listing, nil
}

// ParseListing extracts the anchors of an HTML directory page.
//
// An href ending in "/" is a sub-directory, anything else a file. Relative
// hrefs are resolved against dirURL; absolute http(s) hrefs are kept.
// Parent and self links are dropped: entries ending in "/../" and entries
// resolving to dirURL or one of its ancestors. Sort-order links such as
// "?C=N;O=D" are dropped too. Duplicates keep their first position.
func ParseListing(dirURL string, r io.Reader) (*Listing, error) {
	base, err := url.Parse(dirURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory url: %w", err)
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	listing := &Listing{URL: dirURL}
	seen := make(map[string]bool)

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if entry, isDir, ok := classify(base, dirURL, attr(n, "href")); ok && !seen[entry] {
				seen[entry] = true
				if isDir {
					listing.Dirs = append(listing.Dirs, entry)
				} else {
					listing.Files = append(listing.Files, entry)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)
	return listing, nil
}

func classify(base *url.URL, dirURL, href string) (entry string, isDir, ok bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "?") {
		return "", false, false
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		entry = href
	} else {
		ref, err := url.Parse(href)
		if err != nil {
			return "", false, false
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return "", false, false
		}
		entry = resolved.String()
	}

	if strings.HasSuffix(entry, "/../") || strings.HasPrefix(dirURL, entry) {
		return "", false, false
	}
	return entry, strings.HasSuffix(entry, "/"), true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
