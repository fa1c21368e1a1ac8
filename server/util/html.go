package util

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ImageSources scans an HTML document and returns the src attribute of every
// img tag, in document order, with duplicates removed. The tokenizer recovers
// from malformed markup, so partial documents still yield the sources that
// could be parsed.
func ImageSources(r io.Reader) ([]string, error) {
	tokenizer := html.NewTokenizer(r)

	var sources []string
	seen := make(map[string]bool)

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, err
			}
			return sources, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "img" {
				continue
			}

			for _, attr := range token.Attr {
				if attr.Key != "src" {
					continue
				}

				src := strings.TrimSpace(attr.Val)
				if src == "" || seen[src] {
					break
				}

				seen[src] = true
				sources = append(sources, src)
				break
			}
		}
	}
}
