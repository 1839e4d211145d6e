package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// IDKind describes which identifier representations an entity carries.
type IDKind int

const (
	IDNone IDKind = iota
	IDNative
	IDString
	IDBoth
)

// Ident is embedded in every stored entity. OID is the store's native key;
// ID is a string id set by older writers or by callers that never saw the OID.
type Ident struct {
	OID primitive.ObjectID `bson:"_id,omitempty"`
	ID  string             `bson:"id,omitempty"`
}

// Identified is implemented by every entity that embeds Ident.
type Identified interface {
	Identity() Ident
}

func (i Ident) Identity() Ident { return i }

func (i Ident) Kind() IDKind {
	switch {
	case !i.OID.IsZero() && i.ID != "":
		return IDBoth
	case !i.OID.IsZero():
		return IDNative
	case i.ID != "":
		return IDString
	default:
		return IDNone
	}
}

// NormalizeID returns the external string id of e. The native id wins when
// present and is rendered as 24 lowercase hex characters.
func NormalizeID(e Identified) string {
	id := e.Identity()
	switch id.Kind() {
	case IDNative, IDBoth:
		return id.OID.Hex()
	case IDString:
		return id.ID
	default:
		return ""
	}
}

// IndexByID returns the position of the first item whose normalized id equals
// key, or -1.
func IndexByID[T Identified](items []T, key string) int {
	if key == "" {
		return -1
	}
	for i, it := range items {
		if NormalizeID(it) == key {
			return i
		}
	}
	return -1
}
