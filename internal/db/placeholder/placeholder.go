// Package placeholder provides the default profile remover. It removes
// nothing and reports success for every user ID.
package placeholder

import "context"

// Placeholder is a profile remover without a backing store.
type Placeholder struct{}

// New returns a Placeholder.
func New() *Placeholder {
	return &Placeholder{}
}

// RemoveProfile always succeeds.
func (p *Placeholder) RemoveProfile(ctx context.Context, userID string) error {
	return nil
}

// Close releases nothing and always succeeds.
func (p *Placeholder) Close() error {
	return nil
}
