// Package testing provides fakes, fixtures and helpers for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - FakeGateway: scripted in-memory Compute Engine gateway
//   - GatewayFixture: pre-configured gateways for common scenarios
//   - RecordingReporter, MockReporter: reporter doubles for the lifecycle workflows
//
// Usage:
//
//	gw := testing.NewGatewayFixture().Standard()
//	rep := &testing.RecordingReporter{Answer: true}
//	mgr := provisioning.NewManager(gw, testing.Project, testing.Zone,
//	    provisioning.WithReporter(rep))
package testing
