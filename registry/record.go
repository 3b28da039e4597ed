package registry

import (
	"strings"
	"time"
)

// ShareRecord is a single sharing fact: who uploaded a piece of content and
// who, if anyone, it is currently shared with.
type ShareRecord struct {
	ContentID   string `json:"cid"`
	DisplayName string `json:"name"`
	Owner       string `json:"sharedBy"`
	Recipient   string `json:"sharedTo"` // "" until shared
	SharedAt    int64  `json:"timestamp"` // ms since epoch, creation or last mutation
}

// Time returns SharedAt as a time.Time.
func (r ShareRecord) Time() time.Time {
	return time.UnixMilli(r.SharedAt)
}

// IsShared reports whether the record has a recipient.
func (r ShareRecord) IsShared() bool {
	return r.Recipient != ""
}

// CanShare reports whether viewer owns the record and has not shared it yet.
func (r ShareRecord) CanShare(viewer string) bool {
	return !r.IsShared() && r.Owner == strings.ToLower(viewer)
}

// SharedByOther reports whether the record was uploaded by someone other
// than viewer.
func (r ShareRecord) SharedByOther(viewer string) bool {
	return r.Owner != strings.ToLower(viewer)
}
