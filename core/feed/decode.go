// ABOUTME: Feed decoding turns raw RSS, Atom or JSON feed bytes into source-native entries
// ABOUTME: Atom keeps typed content blocks; RSS and JSON go through the universal gofeed parser

package feed

import (
	"bytes"
	"errors"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"techpulse-app/core/domain"
)

// ErrUnknownFeedFormat is returned when the body is neither RSS, Atom nor JSON feed
var ErrUnknownFeedFormat = errors.New("unrecognized feed format")

// DecodeFeed parses a feed document into raw entries in document order
func DecodeFeed(content []byte) ([]*domain.RawEntry, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("empty feed content")
	}

	switch gofeed.DetectFeedType(bytes.NewReader(content)) {
	case gofeed.FeedTypeAtom:
		return decodeAtom(content)
	case gofeed.FeedTypeRSS:
		return decodeUniversal(content, true)
	case gofeed.FeedTypeJSON:
		return decodeUniversal(content, false)
	default:
		return nil, ErrUnknownFeedFormat
	}
}

func decodeAtom(content []byte) ([]*domain.RawEntry, error) {
	parser := &atom.Parser{}
	parsed, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.RawEntry, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		if e == nil {
			continue
		}
		entry := &domain.RawEntry{
			ID:          e.ID,
			Title:       e.Title,
			Published:   e.Published,
			Description: e.Summary,
		}
		if entry.Published == "" {
			entry.Published = e.Updated
		}

		for _, l := range e.Links {
			if l == nil || l.Href == "" {
				continue
			}
			switch l.Rel {
			case "", "alternate":
				if entry.Link == "" {
					entry.Link = l.Href
				}
			case "enclosure":
				entry.Enclosures = append(entry.Enclosures, domain.Enclosure{
					URL:    l.Href,
					Length: l.Length,
					Type:   l.Type,
				})
			}
		}

		if e.Content != nil && e.Content.Value != "" {
			ctype := e.Content.Type
			if ctype == "" {
				ctype = "text"
			}
			entry.Contents = append(entry.Contents, domain.ContentBlock{Type: ctype, Value: e.Content.Value})
		}

		for _, c := range e.Categories {
			if c == nil {
				continue
			}
			term := c.Term
			if term == "" {
				term = c.Label
			}
			if term != "" {
				entry.Terms = append(entry.Terms, term)
			}
		}

		entry.Categories = extensionValues(e.Extensions, "dc", "subject")
		entry.Media = mediaAttachments(e.Extensions)
		entries = append(entries, entry)
	}

	return entries, nil
}

// decodeUniversal handles RSS and JSON feeds. For RSS the universal item
// content is content:encoded, which is HTML by definition.
func decodeUniversal(content []byte, rss bool) ([]*domain.RawEntry, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entry := &domain.RawEntry{
			ID:          item.GUID,
			Title:       item.Title,
			Link:        item.Link,
			Published:   item.Published,
			Description: item.Description,
			Terms:       item.Categories,
		}
		if entry.Published == "" {
			entry.Published = item.Updated
		}

		if item.Content != "" {
			entry.Contents = []domain.ContentBlock{{Type: "text/html", Value: item.Content}}
			if rss {
				entry.EncodedContent = item.Content
			}
		}

		if item.DublinCoreExt != nil {
			entry.Categories = item.DublinCoreExt.Subject
		}

		for _, enc := range item.Enclosures {
			if enc == nil || enc.URL == "" {
				continue
			}
			entry.Enclosures = append(entry.Enclosures, domain.Enclosure{
				URL:    enc.URL,
				Length: enc.Length,
				Type:   enc.Type,
			})
		}

		entry.Media = mediaAttachments(item.Extensions)
		entries = append(entries, entry)
	}

	return entries, nil
}

// mediaAttachments collects media:content and media:thumbnail, including those nested in media:group
func mediaAttachments(exts ext.Extensions) []domain.MediaAttachment {
	media, ok := exts["media"]
	if !ok {
		return nil
	}

	var out []domain.MediaAttachment
	collect := func(list []ext.Extension, defaultType string) {
		for _, m := range list {
			url := m.Attrs["url"]
			if url == "" {
				continue
			}
			mtype := m.Attrs["type"]
			if mtype == "" && m.Attrs["medium"] == "image" {
				mtype = "image/*"
			}
			if mtype == "" {
				mtype = defaultType
			}
			out = append(out, domain.MediaAttachment{URL: url, Type: mtype})
		}
	}

	collect(media["content"], "")
	for _, group := range media["group"] {
		collect(group.Children["content"], "")
	}
	collect(media["thumbnail"], "image/*")

	return out
}

func extensionValues(exts ext.Extensions, namespace, name string) []string {
	var out []string
	for _, e := range exts[namespace][name] {
		if v := strings.TrimSpace(e.Value); v != "" {
			out = append(out, v)
		}
	}
	return out
}
