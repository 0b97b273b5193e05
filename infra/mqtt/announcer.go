// Package mqtt publishes schedule lifecycle state to an MQTT broker so
// wall dashboards can mirror the charger without polling the API.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/pjaos/chargeplan/core/events"
	"github.com/pjaos/chargeplan/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "chargeplan-" + uuid.NewString()[:8]
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "chargeplan"
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Announcer publishes lifecycle transitions as retained JSON messages on
// <prefix>/<device_id>/schedule/state, so a subscriber joining late
// still sees the current state.
type Announcer struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

type statePayload struct {
	DeviceID   string `json:"device_id"`
	ScheduleID string `json:"schedule_id"`
	State      string `json:"state"`
	Time       string `json:"time"`
}

// NewAnnouncer connects to the broker described by cfg.
func NewAnnouncer(cfg Config) (*Announcer, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	cli := newMQTTClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	return &Announcer{
		cli:    cli,
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		log:    logger.New("mqtt-announcer"),
	}, nil
}

// Announce publishes the lifecycle event. Publish failures are logged,
// not returned; the dashboard is best effort.
func (a *Announcer) Announce(ev events.ScheduleEvent) {
	payload, err := json.Marshal(statePayload{
		DeviceID:   ev.DeviceID,
		ScheduleID: ev.ScheduleID,
		State:      ev.State.String(),
		Time:       ev.Time.Format(time.RFC3339),
	})
	if err != nil {
		a.log.Errorf("marshal state: %v", err)
		return
	}
	topic := fmt.Sprintf("%s/%s/schedule/state", a.prefix, ev.DeviceID)
	tok := a.cli.Publish(topic, a.qos, true, payload)
	if tok.Wait() && tok.Error() != nil {
		a.log.Warnf("publish %s: %v", topic, tok.Error())
	}
}

// Close disconnects from the broker.
func (a *Announcer) Close() {
	if a.cli.IsConnected() {
		a.cli.Disconnect(250)
	}
}
