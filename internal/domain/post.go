package domain

import (
	"regexp"
	"strings"
	"time"
)

type Post struct {
	ID        int64
	AuthorID  int64
	Author    string
	Body      string
	ImageKey  string
	Hashtags  []string
	PetIDs    []int64
	Likes     int
	Comments  int
	LikedByMe bool
	CreatedAt time.Time
}

type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Author    string
	Body      string
	CreatedAt time.Time
}

var hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_]{1,64})`)

// ExtractHashtags returns the distinct lower-cased hashtags in body, in order
// of first appearance.
func ExtractHashtags(body string) []string {
	matches := hashtagRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
