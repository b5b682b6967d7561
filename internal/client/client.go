package client

import (
	"fmt"
	"slices"
	"strings"
)

// Client is one client record.
//
// ID is zero until the record has been inserted; the store assigns it and it
// never changes afterward.
type Client struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phones    []string
}

// New builds an unsaved client. The phone list is copied and is never nil.
func New(firstName, lastName, email string, phones ...string) *Client {
	return &Client{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phones:    clonePhones(phones),
	}
}

// AddPhone appends number to the phone list. Duplicates are kept.
func (c *Client) AddPhone(number string) {
	c.Phones = append(c.Phones, number)
}

// RemovePhone removes the first occurrence of number.
// Returns a NotFoundError if the client has no such phone.
func (c *Client) RemovePhone(number string) error {
	i := slices.Index(c.Phones, number)
	if i < 0 {
		return &NotFoundError{Field: "phone", Value: number}
	}
	c.Phones = slices.Delete(c.Phones, i, i+1)
	return nil
}

// HasID reports whether the client has been persisted.
func (c Client) HasID() bool {
	return c.ID != 0
}

// Clone returns a deep copy. The phone slice of the copy is never nil.
func (c Client) Clone() Client {
	c.Phones = clonePhones(c.Phones)
	return c
}

// Equal compares every field except ID. A nil phone list equals an empty one.
func (c Client) Equal(other Client) bool {
	return c.FirstName == other.FirstName &&
		c.LastName == other.LastName &&
		c.Email == other.Email &&
		slices.Equal(c.Phones, other.Phones)
}

// View is the read-only projection of a client used for display and
// serialization. ID is nil for unsaved clients.
type View struct {
	ID        *int64   `json:"id,omitempty" yaml:"id,omitempty"`
	FirstName string   `json:"first_name" yaml:"first_name"`
	LastName  string   `json:"last_name" yaml:"last_name"`
	Email     string   `json:"email" yaml:"email"`
	Phones    []string `json:"phones" yaml:"phones"`
}

// View returns the projection of c. The phone list is copied.
func (c Client) View() View {
	v := View{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phones:    clonePhones(c.Phones),
	}
	if c.HasID() {
		id := c.ID
		v.ID = &id
	}
	return v
}

// String renders the client on a single line.
func (c Client) String() string {
	quoted := make([]string, len(c.Phones))
	for i, p := range c.Phones {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	s := fmt.Sprintf("Client(first_name=%q, last_name=%q, email=%q, phones=[%s])",
		c.FirstName, c.LastName, c.Email, strings.Join(quoted, ", "))
	if c.HasID() {
		s = fmt.Sprintf("#%d %s", c.ID, s)
	}
	return s
}

func clonePhones(phones []string) []string {
	out := make([]string, len(phones))
	copy(out, phones)
	return out
}
