// Package domain contains core concepts of the collaboration service.
// This file defines Channel entities and their membership rules.
package domain

import (
	"strings"
	"sync"
)

// Channel is a named conversation with a mutable member list.
// Add and remove are read-modify-write operations, so the member list is
// guarded by a per-channel mutex instead of relying on callers to serialize.
type Channel struct {
	Name        string
	Description string

	mu      sync.Mutex
	members []*User
}

func NewChannel(name, description string, members []*User) *Channel {
	return &Channel{
		Name:        name,
		Description: description,
		members:     members,
	}
}

// Members returns a snapshot of the member list.
func (c *Channel) Members() []*User {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]*User, len(c.members))
	copy(snapshot, c.members)
	return snapshot
}

// AddMember prepends a user to the member list.
// Duplicate entries are permitted, lookups resolve to the first match.
func (c *Channel) AddMember(user *User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = append([]*User{user}, c.members...)
}

// RemoveMember drops every member whose nickname matches, ignoring case,
// and reports whether at least one entry was removed.
func (c *Channel) RemoveMember(nickname string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]*User, 0, len(c.members))
	for _, member := range c.members {
		if strings.EqualFold(member.Nickname, nickname) {
			continue
		}
		kept = append(kept, member)
	}
	removed := len(kept) != len(c.members)
	c.members = kept
	return removed
}

// HasMember reports whether a user with this nickname is currently a member.
func (c *Channel) HasMember(nickname string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, member := range c.members {
		if strings.EqualFold(member.Nickname, nickname) {
			return true
		}
	}
	return false
}
