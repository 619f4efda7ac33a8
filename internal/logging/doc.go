// Package logging constructs the slog logger used across Marquee.
//
// Two handler formats are supported: a human-oriented console format for
// interactive import runs, and JSON for log files or machine consumption.
// Output can fan out to stdout plus a file under the configured log
// directory. The "component" attribute is rendered as a message prefix in
// console output so per-subsystem loggers stay readable.
package logging
