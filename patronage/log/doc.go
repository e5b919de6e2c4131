// Package log defines the logging abstraction used by the patronage library.
//
// The interface is deliberately small: structured Log with typed fields,
// child loggers via With, and Sync for flush-on-shutdown. The zap subpackage
// provides the production implementation; NewNop provides the default.
package log
