package instagram

import (
	"net/url"
	"strings"
)

const (
	PostTypePost  = "post"
	PostTypeReel  = "reel"
	PostTypeStory = "story"

	UnknownUsername = "unknown_user"
)

// URLInfo is what can be recovered about a post from its URL alone.
type URLInfo struct {
	Username  string
	PostType  string
	Shortcode string
}

type urlParseState int

const (
	scanning urlParseState = iota
	expectStoryOwner
	expectShortcode
	done
)

// ParseURL walks the path segments of an Instagram URL. The username is the
// segment preceding a `p`/`reel`/`tv` marker (as in /someuser/p/ABC/), or the
// segment following `stories` (as in /stories/someuser/123/). The host is
// never considered a path segment. Fields that cannot be recovered are left
// at their defaults: UnknownUsername, PostTypePost and an empty shortcode.
func ParseURL(raw string) URLInfo {
	info := URLInfo{Username: UnknownUsername, PostType: PostTypePost}

	state := scanning
	previous := ""
	for _, seg := range pathSegments(raw) {
		switch state {
		case scanning:
			switch seg {
			case "p", "tv", "reel":
				if seg == "reel" {
					info.PostType = PostTypeReel
				}
				if previous != "" {
					info.Username = previous
				}
				state = expectShortcode
			case "stories":
				info.PostType = PostTypeStory
				state = expectStoryOwner
			default:
				previous = seg
			}
		case expectStoryOwner:
			info.Username = seg
			state = expectShortcode
		case expectShortcode:
			info.Shortcode = seg
			state = done
		}

		if state == done {
			break
		}
	}

	return info
}

// IsInstagramURL reports whether the URL is hosted on instagram.com or one
// of its subdomains. Scheme-less input such as "instagram.com/p/ABC" is
// accepted.
func IsInstagramURL(raw string) bool {
	host := hostOf(raw)
	return host == "instagram.com" || strings.HasSuffix(host, ".instagram.com")
}

// lastPathSegment returns the final non-empty path segment of the URL, ignoring
// any query string or fragment.
func lastPathSegment(raw string) string {
	segments := pathSegments(raw)
	if len(segments) == 0 {
		return ""
	}

	return segments[len(segments)-1]
}

func pathSegments(raw string) []string {
	parsed := parseLenient(raw)
	if parsed == nil {
		return nil
	}

	segments := make([]string, 0)
	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	return segments
}

func hostOf(raw string) string {
	parsed := parseLenient(raw)
	if parsed == nil {
		return ""
	}

	return strings.ToLower(parsed.Hostname())
}

// parseLenient parses the URL, assuming https when no scheme is present so
// that the first segment is treated as the host rather than a path.
func parseLenient(raw string) *url.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	return parsed
}
