package metadata

import (
	"bytes"
	"context"
	"fmt"
	htmltext "html"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// maxExcerptLength bounds excerpts built from page body text
const maxExcerptLength = 500

var textPolicy = bluemonday.StrictPolicy()

// scrapePage extracts generic metadata from the page itself, used when the
// target is not a compatible instance. The subscribe capability is always
// false on this path.
func (f *Fetcher) scrapePage(ctx context.Context, target *url.URL) (Metadata, error) {
	body, err := f.get(ctx, target)
	if err != nil {
		return Metadata{}, err
	}

	page, err := parsePage(body, target)
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Title:         optionalString(page.title),
		Excerpt:       optionalString(page.description),
		FeaturedImage: resolvePageURL(target, page.image),
		Favicon:       resolvePageURL(target, page.icon),
	}

	// no usable description in the head, fall back to extracted body text
	if meta.Excerpt == nil {
		meta.Excerpt = extractExcerpt(body, target)
	}
	return meta, nil
}

// pageHead is what the scraper pulls out of the document head
type pageHead struct {
	title       string
	description string
	image       string
	icon        string
}

func parsePage(body []byte, target *url.URL) (pageHead, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return pageHead{}, fmt.Errorf("parse page %s: %w", target, err)
	}

	var page pageHead
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.title == "" && n.FirstChild != nil {
					page.title = cleanText(n.FirstChild.Data)
				}
			case "meta":
				name := strings.ToLower(attrValue(n, "property"))
				if name == "" {
					name = strings.ToLower(attrValue(n, "name"))
				}
				content := attrValue(n, "content")
				switch name {
				case "og:title":
					page.title = cleanText(content) // og:title wins over <title>
				case "og:description", "description":
					if page.description == "" {
						page.description = cleanText(content)
					}
				case "og:image":
					if page.image == "" {
						page.image = content
					}
				}
			case "link":
				rel := strings.ToLower(attrValue(n, "rel"))
				if page.icon == "" && (rel == "icon" || rel == "shortcut icon" || rel == "apple-touch-icon") {
					page.icon = attrValue(n, "href")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

// extractExcerpt pulls readable text out of the page body, nil when the page
// has no extractable content
func extractExcerpt(body []byte, target *url.URL) *string {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		OriginalURL:     target,
	}
	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil || result == nil {
		return nil
	}
	text := cleanText(result.Metadata.Description)
	if text == "" {
		text = cleanText(result.ContentText)
	}
	if runes := []rune(text); len(runes) > maxExcerptLength {
		text = string(runes[:maxExcerptLength])
	}
	return optionalString(text)
}

// resolvePageURL makes a scraped reference absolute against the page URL,
// nil when it cannot be parsed or resolved to http(s)
func resolvePageURL(base *url.URL, ref string) *url.URL {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(u)
	if resolved.Host == "" || (resolved.Scheme != "http" && resolved.Scheme != "https") {
		return nil
	}
	return resolved
}

// cleanText strips any markup out of scraped text
func cleanText(s string) string {
	return strings.TrimSpace(htmltext.UnescapeString(textPolicy.Sanitize(s)))
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
