// Package types defines the wire-level scalar and shared entity types the
// backend REST envelope uses: MongoDB extended-JSON object ids and
// timestamps, the creation/modification Meta block, and the closed tag
// category enumeration.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ObjectID is an opaque hex entity id. The backend emits ids either as
// extended JSON ({"$oid": "..."}) or as a plain string depending on the
// endpoint; both decode to the same value. It always marshals as a plain
// string.
type ObjectID string

type extJSONOID struct {
	OID string `json:"$oid"`
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ObjectID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ObjectID(s)
		return nil
	}
	var ext extJSONOID
	if err := json.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("object id: %w", err)
	}
	if ext.OID == "" {
		return fmt.Errorf("object id: missing $oid")
	}
	*id = ObjectID(ext.OID)
	return nil
}

// MarshalJSON implements json.Marshaler
func (id ObjectID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// String returns the hex form
func (id ObjectID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset
func (id ObjectID) IsZero() bool {
	return id == ""
}

// ParseObjectID decodes a raw JSON value into an ObjectID. Used for
// open-ended payload maps where ids arrive as json.RawMessage.
func ParseObjectID(raw json.RawMessage) (ObjectID, error) {
	var id ObjectID
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", err
	}
	return id, nil
}

// Time is a timestamp that decodes from the backend's extended JSON shape
// ({"$date": <unix milliseconds>}) or from an RFC 3339 string.
type Time struct {
	time.Time
}

type extJSONDate struct {
	Date *int64 `json:"$date"`
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	var ext extJSONDate
	if err := json.Unmarshal(data, &ext); err == nil && ext.Date != nil {
		t.Time = time.UnixMilli(*ext.Date).UTC()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return fmt.Errorf("timestamp: %w", perr)
		}
		t.Time = parsed.UTC()
		return nil
	}
	return fmt.Errorf("timestamp: unrecognized encoding %s", string(data))
}

// MarshalJSON implements json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// Meta carries creation and modification metadata shared by most entities.
type Meta struct {
	CreatedAt  Time      `json:"created_at"`
	CreatedBy  ObjectID  `json:"created_by"`
	ModifiedAt *Time     `json:"modified_at"`
	ModifiedBy *ObjectID `json:"modified_by"`
}

// TagCategory is the closed set of tag categories. The wire form is the
// category name verbatim.
type TagCategory string

// Tag category values. Author is the discriminant selecting the
// author-linked tag variant.
const (
	CategoryGeneral    TagCategory = "General"
	CategoryCharacter  TagCategory = "Character"
	CategoryCopyright  TagCategory = "Copyright"
	CategoryAuthor     TagCategory = "Author"
	CategoryMeta       TagCategory = "Meta"
	CategoryLanguage   TagCategory = "Language"
	CategorySoundtrack TagCategory = "Soundtrack"
)

// TagCategories lists every valid category in declaration order.
var TagCategories = []TagCategory{
	CategoryGeneral,
	CategoryCharacter,
	CategoryCopyright,
	CategoryAuthor,
	CategoryMeta,
	CategoryLanguage,
	CategorySoundtrack,
}

// ParseTagCategory converts a wire string into a TagCategory, rejecting
// anything outside the closed set.
func ParseTagCategory(s string) (TagCategory, error) {
	for _, c := range TagCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown tag category %q", s)
}

// UnmarshalJSON implements json.Unmarshaler with closed-set validation
func (c *TagCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTagCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
