package mailer

import (
	"fmt"
	"strings"
)

// Class controls which address list a recipient lands in.
type Class string

const (
	ClassDirect Class = "direct"
	ClassCC     Class = "cc"
	ClassBCC    Class = "bcc"

	// ClassAll selects every class. Valid for queries, removal and clearing,
	// never as the class of a recipient.
	ClassAll Class = "all"
)

// ParseClass converts a user supplied class name. "to" is accepted as an alias
// of "direct". Matching is case-insensitive.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "to":
		return ClassDirect, nil
	case "cc":
		return ClassCC, nil
	case "bcc":
		return ClassBCC, nil
	case "all":
		return ClassAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidClass, s)
	}
}

// Valid reports whether c can be assigned to a recipient.
func (c Class) Valid() bool {
	return c == ClassDirect || c == ClassCC || c == ClassBCC
}

func (c Class) String() string {
	return string(c)
}

// matches reports whether a recipient of class rc is selected by c.
func (c Class) matches(rc Class) bool {
	return c == ClassAll || c == rc
}

// UnmarshalText lets definitions use any spelling ParseClass accepts.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
