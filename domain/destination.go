// Package domain contains core concepts of the collaboration service.
// This file defines where a message is addressed to.
package domain

import "strings"

// DestinationKind tags the entity a message is addressed to.
type DestinationKind string

const (
	KindUser    DestinationKind = "user"
	KindChannel DestinationKind = "channel"
)

// Destination identifies a message target by kind and unique key rather
// than by entity contents. A user keeps their messages when their status
// changes, and a reference that no longer resolves simply renders as absent.
type Destination struct {
	Kind DestinationKind
	Key  string
}

func UserDestination(nickname string) Destination {
	return Destination{Kind: KindUser, Key: nickname}
}

func ChannelDestination(name string) Destination {
	return Destination{Kind: KindChannel, Key: name}
}

// Equal compares the kind first, then the key ignoring case, mirroring the
// lookup rules of the store.
func (d Destination) Equal(other Destination) bool {
	return d.Kind == other.Kind && strings.EqualFold(d.Key, other.Key)
}

func (d Destination) String() string {
	return string(d.Kind) + ":" + strings.ToLower(d.Key)
}
