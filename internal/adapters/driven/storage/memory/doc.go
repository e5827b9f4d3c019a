// Package memory provides in-process implementations of the driven
// ports. ResultStore is the default second tier when nothing should be
// persisted; ConfigStore backs tests and --config-dir=":memory:" runs.
package memory
