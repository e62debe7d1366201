package outreach

import "github.com/sells-group/outreach-cli/internal/model"

// SelectChannel picks the delivery channel for c. A preference the contact
// cannot be reached on degrades to SMS, then Email, then None.
func SelectChannel(c model.Contact) model.Channel {
	switch c.PreferredContactMethod {
	case model.ContactMethodSMS:
		if c.HasPhone() {
			return model.ChannelSMS
		}
	case model.ContactMethodCall:
		if c.HasPhone() {
			return model.ChannelCall
		}
	case model.ContactMethodEmail:
		if c.HasEmail() {
			return model.ChannelEmail
		}
	}

	switch {
	case c.HasPhone():
		return model.ChannelSMS
	case c.HasEmail():
		return model.ChannelEmail
	default:
		return model.ChannelNone
	}
}
