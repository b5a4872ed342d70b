package ctdf

import "fmt"

// Stop is a single point along the route. Sequence orders stops along the line.
type Stop struct {
	PrimaryIdentifier string `groups:"basic,detailed"`
	PrimaryName       string `groups:"basic,detailed"`

	Location *Location `groups:"basic,detailed"`

	Sequence int  `groups:"basic,detailed"`
	Active   bool `groups:"detailed"`
}

func (s *Stop) String() string {
	return fmt.Sprintf("%s (%s)", s.PrimaryName, s.PrimaryIdentifier)
}
