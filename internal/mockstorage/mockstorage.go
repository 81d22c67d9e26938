// Package mockstorage provides a testify-based mock of the profile remover
// used by the deleter and router tests.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// RemoverMock is a testify mock of a profile remover.
type RemoverMock struct {
	mock.Mock
}

// RemoveProfile mocks removal of the profile with the given ID.
func (m *RemoverMock) RemoveProfile(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *RemoverMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
