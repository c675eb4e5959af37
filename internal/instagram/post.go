package instagram

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Post is the metadata a Provider was able to recover for a single shortcode.
// Each field is optional: nil means the provider could not find it, which is
// distinct from it being present but empty.
type Post struct {
	Shortcode       string
	OwnerUsername   *string
	Caption         *string
	CaptionHashtags []string
}

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the hashtags in the caption, lower-cased and without
// their leading '#', in order of first appearance.
func ExtractHashtags(caption string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(caption, -1)
	tags := lo.Map(matches, func(match []string, _ int) string { return strings.ToLower(match[1]) })

	return lo.Uniq(tags)
}

func stringPtr(s string) *string { return &s }
