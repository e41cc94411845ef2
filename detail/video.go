package detail

import (
	"fmt"
	"regexp"
)

var videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

const videoIDLen = 11

// VideoID extracts the 11 character video id from a share, embed or watch URL
func VideoID(url string) (string, error) {
	if url == "" {
		return "", ErrNoVideo
	}
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != videoIDLen {
		return "", fmt.Errorf("%w: %q", ErrNoVideo, url)
	}
	return m[2], nil
}

// WatchURL is the canonical playable URL for a video id
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ThumbnailURL is the large still for a video id
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}
