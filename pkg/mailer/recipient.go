package mailer

// Entry is a recipient in one of the shapes accepted by Messenger:
// a *Recipient or a RecipientRecord.
type Entry interface {
	isEntry()
}

// Recipient is a single address in a messenger.
type Recipient struct {
	email string
	name  string
	class Class
}

// NewRecipient creates a recipient. name may be empty.
func NewRecipient(email, name string, class Class) *Recipient {
	return &Recipient{email: email, name: name, class: class}
}

func (r *Recipient) isEntry() {}

func (r *Recipient) Email() string { return r.email }
func (r *Recipient) Name() string  { return r.name }
func (r *Recipient) Class() Class  { return r.class }

func (r *Recipient) SetEmail(email string) *Recipient {
	r.email = email
	return r
}

func (r *Recipient) SetName(name string) *Recipient {
	r.name = name
	return r
}

func (r *Recipient) SetClass(class Class) *Recipient {
	r.class = class
	return r
}

// Clear resets email and name. The class is kept.
func (r *Recipient) Clear() *Recipient {
	r.email = ""
	r.name = ""
	return r
}

// Compile returns the wire form. Name is omitted when empty.
func (r *Recipient) Compile() Address {
	return Address{Email: r.email, Name: r.name}
}

// RecipientRecord is the structured input form of a recipient, as found in
// request definitions. Type is only consulted by bulk adds.
type RecipientRecord struct {
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Type  Class  `json:"type,omitempty" yaml:"type,omitempty"`
}

func (RecipientRecord) isEntry() {}

// Entries converts a typed slice into entries for the bulk add methods.
func Entries[T Entry](items []T) []Entry {
	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// toRecipient resolves an entry into a new recipient of the given class.
// A *Recipient is copied: the group never shares it with the caller.
func toRecipient(e Entry, class Class) (*Recipient, error) {
	if !class.Valid() {
		return nil, ErrInvalidClass
	}

	switch v := e.(type) {
	case *Recipient:
		if v == nil {
			return nil, ErrNilRecipient
		}
		if v.email == "" {
			return nil, ErrMissingEmail
		}
		return NewRecipient(v.email, v.name, class), nil
	case RecipientRecord:
		if v.Email == "" {
			return nil, ErrMissingEmail
		}
		return NewRecipient(v.Email, v.Name, class), nil
	default:
		return nil, ErrNilRecipient
	}
}

// entryClass returns the class carried by the entry itself, or fallback.
func entryClass(e Entry, fallback Class) Class {
	switch v := e.(type) {
	case *Recipient:
		if v != nil && v.class != "" {
			return v.class
		}
	case RecipientRecord:
		if v.Type != "" {
			return v.Type
		}
	}
	return fallback
}
