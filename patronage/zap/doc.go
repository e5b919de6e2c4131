// Package zap adapts zap-based logging to the patronage log abstraction.
//
// It preserves structured fields, bridges log records to OpenTelemetry via
// otelzap, and exposes a runtime-adjustable level handle.
package zap
