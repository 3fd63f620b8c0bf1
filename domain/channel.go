package domain

import "strings"

// DefaultPrefix marks the channels the bot enforces. Overridable via config,
// but every component of one process must share a single value.
const DefaultPrefix = "coffeetalk_"

// Channel mirrors the directory's channel record. Creator is captured by the
// platform at creation time and immutable afterwards; it is empty when the
// platform did not expose it.
type Channel struct {
	ID        string
	Name      string
	Creator   string
	IsPrivate bool
	IsMember  bool // the bot's own membership
}

// InScope reports whether the channel name carries the reserved prefix.
func (c Channel) InScope(prefix string) bool {
	return strings.HasPrefix(c.Name, prefix)
}

// OwnerSlug extracts the slug the channel name implies. The boolean is false
// outside the reserved namespace. An in-scope name with nothing after the
// prefix yields ("", true); callers decide whether that degenerate slug is
// acceptable.
func (c Channel) OwnerSlug(prefix string) (string, bool) {
	if !c.InScope(prefix) {
		return "", false
	}
	return strings.TrimPrefix(c.Name, prefix), true
}

// ChannelName composes the reserved channel name for a slug.
func ChannelName(prefix, slug string) string {
	return prefix + slug
}
