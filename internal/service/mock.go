package service

// MockManager is a test double for Manager interface
type MockManager struct {
	// Function mocks - set these to customize behavior
	StopFunc      func(name string) error
	StartFunc     func(name string) error
	StatusFunc    func(name string) (string, error)
	AvailableFunc func() error

	// Call tracking - check these to verify interactions
	StopCalls   []string
	StartCalls  []string
	StatusCalls []string

	// Running is true after a successful Start and false after a successful Stop
	Running map[string]bool
}

// NewMockManager creates a new MockManager with default no-op implementations
func NewMockManager() *MockManager {
	return &MockManager{
		StopCalls:   make([]string, 0),
		StartCalls:  make([]string, 0),
		StatusCalls: make([]string, 0),
		Running:     make(map[string]bool),
	}
}

// Name returns the manager name
func (m *MockManager) Name() string {
	return "mock"
}

// Stop records the call and invokes the mock function if set
func (m *MockManager) Stop(name string) error {
	m.StopCalls = append(m.StopCalls, name)
	if m.StopFunc != nil {
		if err := m.StopFunc(name); err != nil {
			return err
		}
	}
	m.Running[name] = false
	return nil
}

// Start records the call and invokes the mock function if set
func (m *MockManager) Start(name string) error {
	m.StartCalls = append(m.StartCalls, name)
	if m.StartFunc != nil {
		if err := m.StartFunc(name); err != nil {
			return err
		}
	}
	m.Running[name] = true
	return nil
}

// Status records the call and invokes the mock function if set
func (m *MockManager) Status(name string) (string, error) {
	m.StatusCalls = append(m.StatusCalls, name)
	if m.StatusFunc != nil {
		return m.StatusFunc(name)
	}
	if m.Running[name] {
		return "active", nil
	}
	return "inactive", nil
}

// Available invokes the mock function if set
func (m *MockManager) Available() error {
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}
	return nil
}
