// Package infra holds the adapters behind the core interfaces: zerolog
// logging, the MQTT plan publisher, metrics sinks, Sentry reporting and the
// SQLite plan history. Nothing under core imports these packages.
package infra
