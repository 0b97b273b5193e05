// Package infra contains the adapters binding the pure planning core to
// the outside world: structured logging, metrics sinks, the MQTT
// dashboard announcer and the myenergi device proxy.
package infra
