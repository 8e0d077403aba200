package domain

import (
	"time"
)

// PostMessageCommand carries everything needed to post a message.
// Channel and User are both optional, when both are set the channel wins.
type PostMessageCommand struct {
	Sender   string
	Channel  string
	User     string
	Contents string
	At       time.Time // zero value means "now"
}

// Destination resolves the addressing rule of the command. The boolean is
// false when neither a channel nor a user was supplied.
func (c PostMessageCommand) Destination() (Destination, bool) {
	switch {
	case c.Channel != "":
		return ChannelDestination(c.Channel), true
	case c.User != "":
		return UserDestination(c.User), true
	default:
		return Destination{}, false
	}
}
