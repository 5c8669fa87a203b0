package querycache

import (
	"fmt"
	"net/url"
)

// Kind names a server collection
type Kind string

const (
	KindVitalSigns    Kind = "vital-signs"
	KindMedications   Kind = "medications"
	KindConsultations Kind = "consultations"
)

// Key identifies one cached collection. Params holds the normalized query
// parameters, so keys built from equal parameter sets compare equal.
type Key struct {
	Kind   Kind
	UserID int64
	Params string
}

// NewKey builds a Key. Parameters are encoded sorted by name.
func NewKey(kind Kind, userID int64, params url.Values) Key {
	return Key{
		Kind:   kind,
		UserID: userID,
		Params: params.Encode(),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d?%s", k.Kind, k.UserID, k.Params)
}

// EventType says what happened to a key
type EventType int

const (
	// Updated means a fetch result was stored and the entry is fresh
	Updated EventType = iota + 1
	// Invalidated means the entry is stale or was removed
	Invalidated
)

func (t EventType) String() string {
	switch t {
	case Updated:
		return "updated"
	case Invalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// Event is delivered to the subscribers of a key
type Event struct {
	Key  Key
	Type EventType
}
