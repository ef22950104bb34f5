package mailer

import "net/mail"

// Address is the wire form of a sender, reply-to or recipient.
type Address struct {
	Email string `json:"email" yaml:"email" mapstructure:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
}

// String formats the address as an RFC 5322 mailbox ("Name <email>" or just email).
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// MessageDocument is the wire form of the message body.
type MessageDocument struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// MessengerDocument is the wire form of one recipient group.
type MessengerDocument struct {
	Subject      string    `json:"subject,omitempty"`
	DispatchTime string    `json:"dispatch_time,omitempty"`
	To           []Address `json:"to,omitempty"`
	CC           []Address `json:"cc,omitempty"`
	BCC          []Address `json:"bcc,omitempty"`
}

// Recipients counts addresses in all three lists.
func (m MessengerDocument) Recipients() int {
	return len(m.To) + len(m.CC) + len(m.BCC)
}

// Document is the compiled send request, serialised as-is to the provider.
type Document struct {
	Subject      string              `json:"subject"`
	From         Address             `json:"from"`
	ReplyTo      *Address            `json:"reply_to,omitempty"`
	DispatchTime string              `json:"dispatch_time,omitempty"`
	Message      MessageDocument     `json:"message"`
	Messengers   []MessengerDocument `json:"messengers"`
}

// Recipients counts addresses across all messengers.
func (d *Document) Recipients() int {
	n := 0
	for _, m := range d.Messengers {
		n += m.Recipients()
	}
	return n
}
