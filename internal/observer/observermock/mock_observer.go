// Package observermock is a hand-written go.uber.org/mock implementation
// of observer.Observer, in the shape mockgen would generate for that
// single-method interface, used by internal/supervisor's broadcast
// loop tests.
package observermock

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/minicortex/core/internal/observer"
)

// MockObserver is a mock of the observer.Observer interface.
type MockObserver struct {
	ctrl     *gomock.Controller
	recorder *MockObserverMockRecorder
}

// MockObserverMockRecorder is the mock recorder for MockObserver.
type MockObserverMockRecorder struct {
	mock *MockObserver
}

// NewMockObserver creates a new mock instance.
func NewMockObserver(ctrl *gomock.Controller) *MockObserver {
	m := &MockObserver{ctrl: ctrl}
	m.recorder = &MockObserverMockRecorder{m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected
// calls.
func (m *MockObserver) EXPECT() *MockObserverMockRecorder {
	return m.recorder
}

// OnFrame mocks base method.
func (m *MockObserver) OnFrame(f observer.Frame) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "OnFrame", f)
}

// OnFrame indicates an expected call of OnFrame.
func (mr *MockObserverMockRecorder) OnFrame(f any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnFrame", reflect.TypeOf((*MockObserver)(nil).OnFrame), f)
}
