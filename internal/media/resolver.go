// Package media turns a stored video URL into something a player can use.
// It is pure string work and never touches the network.
package media

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

type Kind int

const (
	// KindDirect is a URL the native player can stream.
	KindDirect Kind = iota
	// KindYouTube carries an embed identifier.
	KindYouTube
	// KindYouTubeUnresolved is a YouTube URL with no recognizable id.
	KindYouTubeUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindYouTube:
		return "youtube"
	case KindYouTubeUnresolved:
		return "youtube-unresolved"
	}
	return "unknown"
}

var ErrNoYouTubeID = errors.New("youtube video cannot be embedded: no video id in url")

// Source is a playback descriptor.
type Source struct {
	Kind     Kind
	Original string
	// URL is set for KindDirect.
	URL string
	// YouTubeID is set for KindYouTube.
	YouTubeID string
}

// Err reports whether the source cannot be played at all.
func (s Source) Err() error {
	if s.Kind == KindYouTubeUnresolved {
		return ErrNoYouTubeID
	}
	return nil
}

var youTubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^&?/\s]+)`),
	regexp.MustCompile(`youtu\.be/([^&?/\s]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&?/\s]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&?/\s]+)`),
}

var (
	drivePathID  = regexp.MustCompile(`/file/d/([^/?#]+)`)
	driveQueryID = regexp.MustCompile(`[?&]id=([^&#]+)`)
)

// Resolve classifies raw and derives its playback descriptor.
func Resolve(raw string) Source {
	if IsYouTube(raw) {
		if id, ok := YouTubeID(raw); ok {
			return Source{Kind: KindYouTube, Original: raw, YouTubeID: id}
		}
		return Source{Kind: KindYouTubeUnresolved, Original: raw}
	}
	return Source{Kind: KindDirect, Original: raw, URL: NormalizeDrive(raw)}
}

func IsYouTube(raw string) bool {
	return strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be")
}

// YouTubeID returns the first capture of the watch, short link, embed and
// shorts patterns, tried in that order.
func YouTubeID(raw string) (string, bool) {
	for _, p := range youTubeIDPatterns {
		if m := p.FindStringSubmatch(raw); m != nil && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// NormalizeDrive rewrites a drive share link to its direct download form.
// The /file/d/<id> form wins over ?id=<id>. Other URLs are returned unchanged.
func NormalizeDrive(raw string) string {
	if !strings.Contains(raw, "drive.google.com") {
		return raw
	}

	var fileID string
	if m := drivePathID.FindStringSubmatch(raw); m != nil {
		fileID = m[1]
	} else if m := driveQueryID.FindStringSubmatch(raw); m != nil {
		fileID = m[1]
	}
	if fileID == "" {
		return raw
	}

	return "https://drive.google.com/uc?export=download&id=" + url.QueryEscape(fileID)
}

// EmbedURL builds the privacy enhanced, looping, muted embed player URL.
func EmbedURL(id string, autoplay bool) string {
	q := url.Values{}
	q.Set("autoplay", "0")
	if autoplay {
		q.Set("autoplay", "1")
	}
	q.Set("mute", "1")
	q.Set("loop", "1")
	q.Set("playlist", id)
	q.Set("controls", "0")
	q.Set("modestbranding", "1")
	q.Set("playsinline", "1")
	q.Set("rel", "0")
	q.Set("fs", "0")
	q.Set("iv_load_policy", "3")
	q.Set("enablejsapi", "1")
	return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id) + "?" + q.Encode()
}
