package forward

import "context"

// MockSubmitter is a test double for the Submitter interface. It also backs
// the "mock" provider setting for dry runs.
type MockSubmitter struct {
	Provider string
	Err      error
	Calls    []Item // records items submitted
}

func (m *MockSubmitter) Name() string {
	if m.Provider == "" {
		return "mock"
	}
	return m.Provider
}

// Submit records the call and returns the mock error.
func (m *MockSubmitter) Submit(ctx context.Context, item Item) error {
	m.Calls = append(m.Calls, item)
	return m.Err
}
