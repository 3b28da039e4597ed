package contentstore

import "context"

// MockStore is a test double for Store.
// PutFn must be set before Put is called. A nil LocateFn makes Locate return
// "mock://" + cid.
type MockStore struct {
	PutFn    func(ctx context.Context, name string, data []byte) (string, error)
	LocateFn func(cid string) string
}

// Compile-time interface check.
var _ Store = (*MockStore)(nil)

func (m *MockStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	return m.PutFn(ctx, name, data)
}

func (m *MockStore) Locate(cid string) string {
	if m.LocateFn == nil {
		return "mock://" + cid
	}
	return m.LocateFn(cid)
}
