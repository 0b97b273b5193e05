// Package myenergi implements the device proxy against the myenergi
// director API. Zappi chargers expose their four boost-time schedule
// slots through cgi-boost-time commands behind HTTP digest auth.
package myenergi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pjaos/chargeplan/core/device"
	"github.com/pjaos/chargeplan/core/logger"
	"github.com/pjaos/chargeplan/core/model"
)

// Config defines the director connection parameters. The hub serial and
// API key form the digest credentials.
type Config struct {
	BaseURL        string `json:"base_url"`
	HubSerial      string `json:"hub_serial"`
	DeviceSerial   string `json:"device_serial"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://s18.myenergi.net"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks the credential fields are present.
func (c *Config) Validate() error {
	if c.HubSerial == "" {
		return model.Validationf("device.hub_serial", "hub serial is required")
	}
	if c.DeviceSerial == "" {
		return model.Validationf("device.device_serial", "zappi serial is required")
	}
	if c.APIKey == "" {
		return model.Validationf("device.api_key", "API key is required")
	}
	return nil
}

// Client talks to the myenergi director. It implements device.Proxy;
// the deviceID arguments are labels for errors and metrics, the serial
// in cfg selects the physical charger.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        logger.Logger
	clearPace  time.Duration
}

// NewClient creates a Client with digest auth wired into its transport.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: newDigestTransport(cfg.HubSerial, cfg.APIKey, nil),
		},
		log:       log,
		clearPace: time.Second,
	}, nil
}

type boostTime struct {
	Slot         int    `json:"slt"`
	StartHour    int    `json:"bsh"`
	StartMinute  int    `json:"bsm"`
	DurationHour int    `json:"bdh"`
	DurationMin  int    `json:"bdm"`
	Days         string `json:"bdd"`
}

type boostTimesResponse struct {
	BoostTimes []boostTime `json:"boost_times"`
}

type zappiStatus struct {
	Zappi []struct {
		Serial    int     `json:"sno"`
		ChargeW   float64 `json:"ectp1"`
		ChargeKWh float64 `json:"che"`
		Status    int     `json:"sta"`
	} `json:"zappi"`
}

// GetSchedule reads the programmed boost times and the live charge
// draw. Empty slots come back zeroed from the API and are skipped.
func (c *Client) GetSchedule(ctx context.Context, deviceID string) (device.ReadBack, error) {
	var bt boostTimesResponse
	url := fmt.Sprintf("%s/cgi-boost-time-Z%s", c.cfg.BaseURL, c.cfg.DeviceSerial)
	if err := c.getJSON(ctx, url, &bt); err != nil {
		return device.ReadBack{}, &device.ProxyError{Op: "get", DeviceID: deviceID, Err: err}
	}

	rb := device.ReadBack{}
	for _, b := range bt.BoostTimes {
		if b.DurationHour == 0 && b.DurationMin == 0 {
			continue
		}
		rb.Entries = append(rb.Entries, device.BoostEntry{
			SlotID:   b.Slot,
			Start:    time.Duration(b.StartHour)*time.Hour + time.Duration(b.StartMinute)*time.Minute,
			Duration: time.Duration(b.DurationHour)*time.Hour + time.Duration(b.DurationMin)*time.Minute,
			Days:     b.Days,
		})
	}

	var st zappiStatus
	url = fmt.Sprintf("%s/cgi-jstatus-Z%s", c.cfg.BaseURL, c.cfg.DeviceSerial)
	if err := c.getJSON(ctx, url, &st); err != nil {
		return device.ReadBack{}, &device.ProxyError{Op: "get", DeviceID: deviceID, Err: err}
	}
	if len(st.Zappi) > 0 {
		rb.ChargeKW = st.Zappi[0].ChargeW / 1000
	}
	return rb, nil
}

// SetSchedule programs one boost-time command per encoded slot.
func (c *Client) SetSchedule(ctx context.Context, deviceID string, enc device.EncodedSchedule) error {
	for _, slot := range enc.Slots {
		url := fmt.Sprintf("%s/cgi-boost-time-Z%s-%s", c.cfg.BaseURL, c.cfg.DeviceSerial, slot.Command())
		if err := c.get(ctx, url); err != nil {
			return &device.ProxyError{Op: "set", DeviceID: deviceID, Err: err}
		}
		if c.log != nil {
			c.log.Debugf("programmed slot %d on %s", slot.SlotID, deviceID)
		}
	}
	return nil
}

// ClearSchedule zeroes all four schedule slots. The director can miss
// back-to-back deletes, so the commands are paced a second apart.
func (c *Client) ClearSchedule(ctx context.Context, deviceID string) error {
	for i, id := range device.SlotIDs() {
		if i > 0 && c.clearPace > 0 {
			select {
			case <-ctx.Done():
				return &device.ProxyError{Op: "clear", DeviceID: deviceID, Err: ctx.Err()}
			case <-time.After(c.clearPace):
			}
		}
		url := fmt.Sprintf("%s/cgi-boost-time-Z%s-%d-0000-000-00000000", c.cfg.BaseURL, c.cfg.DeviceSerial, id)
		if err := c.get(ctx, url); err != nil {
			return &device.ProxyError{Op: "clear", DeviceID: deviceID, Err: err}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
