// Package logging is the logging facade used by the harness and the CLI.
// Components depend on the Logger interface; zerolog backs it with either
// JSON lines or a human-readable console writer.
package logging
