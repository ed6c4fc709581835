// File: internal/mocks/mocks.go
package mocks

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/softphys/internal/config"
	"github.com/xkilldash9x/softphys/internal/host"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Engine() config.EngineConfig {
	args := m.Called()
	return args.Get(0).(config.EngineConfig)
}

func (m *MockConfig) Sliders() config.SlidersConfig {
	args := m.Called()
	return args.Get(0).(config.SlidersConfig)
}

func (m *MockConfig) Simulation() config.SimulationConfig {
	args := m.Called()
	return args.Get(0).(config.SimulationConfig)
}

func (m *MockConfig) Database() config.DatabaseConfig {
	args := m.Called()
	return args.Get(0).(config.DatabaseConfig)
}

func (m *MockConfig) Morphs() []config.MorphOverride {
	args := m.Called()
	overrides, _ := args.Get(0).([]config.MorphOverride)
	return overrides
}

func (m *MockConfig) Offsets() map[string]float64 {
	args := m.Called()
	offsets, _ := args.Get(0).(map[string]float64)
	return offsets
}

// --- Setters ---

func (m *MockConfig) SetSliders(s config.SlidersConfig) {
	m.Called(s)
}

// -- Host Mocks --

// MockHost mocks host.Host. Resolution methods return the typed value given to
// Return, or nil when it was given nil.
type MockHost struct {
	mock.Mock
}

func (m *MockHost) ChestTransform() host.Transform {
	args := m.Called()
	return args.Get(0).(host.Transform)
}

func (m *MockHost) Body(name string) (host.Body, error) {
	args := m.Called(name)
	b, _ := args.Get(0).(host.Body)
	return b, args.Error(1)
}

func (m *MockHost) Mesh() host.Mesh {
	args := m.Called()
	mesh, _ := args.Get(0).(host.Mesh)
	return mesh
}

func (m *MockHost) Collider(name string) (host.Collider, error) {
	args := m.Called(name)
	c, _ := args.Get(0).(host.Collider)
	return c, args.Error(1)
}

func (m *MockHost) ResolveSetting(name string) (host.Setting, error) {
	args := m.Called(name)
	s, _ := args.Get(0).(host.Setting)
	return s, args.Error(1)
}

func (m *MockHost) ResolveMorph(name string) (host.MorphHandle, error) {
	args := m.Called(name)
	h, _ := args.Get(0).(host.MorphHandle)
	return h, args.Error(1)
}

func (m *MockHost) FixedTimestep() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockHost) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockBody mocks host.Body.
type MockBody struct {
	mock.Mock
}

func (m *MockBody) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBody) Position() mgl64.Vec3 {
	args := m.Called()
	return args.Get(0).(mgl64.Vec3)
}

// MockSetting mocks host.Setting.
type MockSetting struct {
	mock.Mock
}

func (m *MockSetting) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSetting) Min() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockSetting) Max() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockSetting) Value() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockSetting) SetValue(v float64) {
	m.Called(v)
}

// MockMorphHandle mocks host.MorphHandle.
type MockMorphHandle struct {
	mock.Mock
}

func (m *MockMorphHandle) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMorphHandle) Value() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockMorphHandle) SetValue(v float64) {
	m.Called(v)
}

// MockCollider mocks host.Collider.
type MockCollider struct {
	mock.Mock
}

func (m *MockCollider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCollider) Center() mgl64.Vec3 {
	args := m.Called()
	return args.Get(0).(mgl64.Vec3)
}

func (m *MockCollider) SetRadius(r float64)         { m.Called(r) }
func (m *MockCollider) SetOffset(offset mgl64.Vec3) { m.Called(offset) }
func (m *MockCollider) SetFriction(f float64)       { m.Called(f) }
func (m *MockCollider) SetMass(mass float64)        { m.Called(mass) }

var (
	_ config.Interface = (*MockConfig)(nil)
	_ host.Host        = (*MockHost)(nil)
	_ host.Body        = (*MockBody)(nil)
	_ host.Setting     = (*MockSetting)(nil)
	_ host.MorphHandle = (*MockMorphHandle)(nil)
	_ host.Collider    = (*MockCollider)(nil)
)
