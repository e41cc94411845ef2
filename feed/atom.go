package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/lixenwraith/living-cosmos/song"
)

// Entry is one video from the channel feed
type Entry struct {
	VideoID     string
	Title       string
	Description string
	Thumbnail   string
	PublishedAt string
}

var shortsTag = regexp.MustCompile(`(?i)#shorts?`)

// ParseAtom reads entries from a channel Atom document. Entries without an id or
// title are skipped
func ParseAtom(data []byte) ([]Entry, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "feed" {
		return nil, fmt.Errorf("parse feed: missing feed root")
	}

	var entries []Entry
	for _, el := range root.SelectElements("entry") {
		e := Entry{
			VideoID:     childText(el, "videoId"),
			Title:       childText(el, "title"),
			PublishedAt: childText(el, "published"),
		}
		if e.VideoID == "" || e.Title == "" {
			continue
		}
		if group := el.SelectElement("group"); group != nil {
			e.Description = childText(group, "description")
			if th := group.SelectElement("thumbnail"); th != nil {
				e.Thumbnail = th.SelectAttrValue("url", "")
			}
		}
		if e.Thumbnail == "" {
			e.Thumbnail = "https://i.ytimg.com/vi/" + e.VideoID + "/hqdefault.jpg"
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// Options shape the transform from feed entries to songs
type Options struct {
	Limit       int
	Artist      string
	Description string
	OriginalURL string
}

// DefaultOptions matches the published channel
func DefaultOptions() Options {
	return Options{
		Limit:       20,
		Artist:      "つむ (Tsumu)",
		Description: "Piano cover",
		OriginalURL: song.OriginalProfileURL,
	}
}

// Songs converts up to opt.Limit entries, assigning palette colors by index
func Songs(entries []Entry, opt Options) []song.Song {
	if opt.Limit > 0 && len(entries) > opt.Limit {
		entries = entries[:opt.Limit]
	}
	out := make([]song.Song, 0, len(entries))
	for i, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = opt.Description
		}
		out = append(out, song.Song{
			ID:          e.VideoID,
			Title:       strings.TrimSpace(shortsTag.ReplaceAllString(e.Title, "")),
			Artist:      opt.Artist,
			Color:       song.PaletteColor(i),
			Description: desc,
			YouTubeURL:  "https://www.youtube.com/watch?v=" + e.VideoID,
			OriginalURL: opt.OriginalURL,
			Thumbnail:   e.Thumbnail,
			PublishedAt: e.PublishedAt,
		})
	}
	return out
}
