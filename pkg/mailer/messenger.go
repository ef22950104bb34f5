package mailer

import (
	"errors"
	"slices"
	"time"

	"github.com/dmitrymomot/alianzmail/pkg/id"
)

// DispatchTimeLayout is the format the provider expects for dispatch times.
const DispatchTimeLayout = "2006-01-02 15:04:05"

// Messenger is a named group of recipients sharing one compiled sub-document.
// Subject and dispatch time, when set, override the request-level values for
// this group only.
type Messenger struct {
	name         string
	subject      string
	dispatchTime string
	recipients   []*Recipient
}

// NewMessenger creates an empty group. An empty name is replaced by a
// generated UUID.
func NewMessenger(name string) *Messenger {
	if name == "" {
		name = id.New()
	}
	return &Messenger{name: name}
}

func (m *Messenger) Name() string         { return m.name }
func (m *Messenger) Subject() string      { return m.subject }
func (m *Messenger) DispatchTime() string { return m.dispatchTime }

// Len returns the number of recipients across all classes.
func (m *Messenger) Len() int { return len(m.recipients) }

// SetName renames the group. Register it with a Request after renaming.
func (m *Messenger) SetName(name string) *Messenger {
	m.name = name
	return m
}

func (m *Messenger) SetSubject(subject string) *Messenger {
	m.subject = subject
	return m
}

// SetDispatchTime sets a "YYYY-MM-DD HH:MM:SS" schedule override. The value is
// passed through unchecked.
func (m *Messenger) SetDispatchTime(dispatchTime string) *Messenger {
	m.dispatchTime = dispatchTime
	return m
}

// SetDispatchAt formats t with DispatchTimeLayout in t's location.
func (m *Messenger) SetDispatchAt(t time.Time) *Messenger {
	return m.SetDispatchTime(t.Format(DispatchTimeLayout))
}

// Add appends one entry as class. For single adds the class argument always
// wins: a record's Type is ignored and a *Recipient is stored as a copy of that class.
func (m *Messenger) Add(class Class, e Entry) error {
	r, err := toRecipient(e, class)
	if err != nil {
		return err
	}
	m.recipients = append(m.recipients, r)
	return nil
}

// AddMany appends entries, using each entry's own class when it has one and
// class otherwise. Nothing is added if any entry is malformed; the returned
// error joins one *EntryError per bad entry.
func (m *Messenger) AddMany(class Class, entries []Entry) error {
	resolved, errs := resolveEntries(class, entries)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	m.recipients = append(m.recipients, resolved...)
	return nil
}

// AddManyBestEffort is AddMany that keeps the well-formed entries. It returns
// how many were added and the joined errors of the skipped ones.
func (m *Messenger) AddManyBestEffort(class Class, entries []Entry) (int, error) {
	resolved, errs := resolveEntries(class, entries)
	m.recipients = append(m.recipients, resolved...)
	return len(resolved), errors.Join(errs...)
}

func resolveEntries(class Class, entries []Entry) ([]*Recipient, []error) {
	resolved := make([]*Recipient, 0, len(entries))
	var errs []error
	for i, e := range entries {
		r, err := toRecipient(e, entryClass(e, class))
		if err != nil {
			errs = append(errs, &EntryError{Index: i, Err: err})
			continue
		}
		resolved = append(resolved, r)
	}
	return resolved, errs
}

// Remove drops the first recipient matching email and class. ClassAll matches
// any class. Reports whether a recipient was removed.
func (m *Messenger) Remove(class Class, email string) bool {
	i := slices.IndexFunc(m.recipients, func(r *Recipient) bool {
		return r.email == email && class.matches(r.class)
	})
	if i < 0 {
		return false
	}
	m.recipients = slices.Delete(m.recipients, i, i+1)
	return true
}

// Clear removes every recipient of class, keeping the order of the rest.
// ClassAll empties the group.
func (m *Messenger) Clear(class Class) *Messenger {
	if class == ClassAll {
		m.recipients = nil
		return m
	}
	m.recipients = slices.DeleteFunc(m.recipients, func(r *Recipient) bool {
		return r.class == class
	})
	return m
}

// Recipients returns the recipients of class in insertion order.
// The slice is a copy; the recipients are not.
func (m *Messenger) Recipients(class Class) []*Recipient {
	out := make([]*Recipient, 0, len(m.recipients))
	for _, r := range m.recipients {
		if class.matches(r.class) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Messenger) AddDirect(e Entry) error { return m.Add(ClassDirect, e) }
func (m *Messenger) AddCC(e Entry) error     { return m.Add(ClassCC, e) }
func (m *Messenger) AddBCC(e Entry) error    { return m.Add(ClassBCC, e) }

func (m *Messenger) AddDirects(entries ...Entry) error { return m.AddMany(ClassDirect, entries) }
func (m *Messenger) AddCCs(entries ...Entry) error     { return m.AddMany(ClassCC, entries) }
func (m *Messenger) AddBCCs(entries ...Entry) error    { return m.AddMany(ClassBCC, entries) }

func (m *Messenger) DropDirect(email string) bool { return m.Remove(ClassDirect, email) }
func (m *Messenger) DropCC(email string) bool     { return m.Remove(ClassCC, email) }
func (m *Messenger) DropBCC(email string) bool    { return m.Remove(ClassBCC, email) }

func (m *Messenger) ClearDirect() *Messenger { return m.Clear(ClassDirect) }
func (m *Messenger) ClearCC() *Messenger     { return m.Clear(ClassCC) }
func (m *Messenger) ClearBCC() *Messenger    { return m.Clear(ClassBCC) }
func (m *Messenger) ClearAll() *Messenger    { return m.Clear(ClassAll) }

func (m *Messenger) Direct() []*Recipient { return m.Recipients(ClassDirect) }
func (m *Messenger) CC() []*Recipient     { return m.Recipients(ClassCC) }
func (m *Messenger) BCC() []*Recipient    { return m.Recipients(ClassBCC) }
func (m *Messenger) All() []*Recipient    { return m.Recipients(ClassAll) }

// Compile projects the group into its wire form. Address lists appear only
// when non-empty. A recipient whose email was cleared fails with ErrMissingEmail.
func (m *Messenger) Compile() (MessengerDocument, error) {
	doc := MessengerDocument{
		Subject:      m.subject,
		DispatchTime: m.dispatchTime,
	}

	for _, r := range m.recipients {
		if r.email == "" {
			return MessengerDocument{}, ErrMissingEmail
		}
		switch r.class {
		case ClassDirect:
			doc.To = append(doc.To, r.Compile())
		case ClassCC:
			doc.CC = append(doc.CC, r.Compile())
		case ClassBCC:
			doc.BCC = append(doc.BCC, r.Compile())
		default:
			return MessengerDocument{}, ErrInvalidClass
		}
	}

	return doc, nil
}
