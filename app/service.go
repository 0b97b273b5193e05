// Package app wires the planning core, the device proxy and the
// ambient infrastructure into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pjaos/chargeplan/api/schedule"
	"github.com/pjaos/chargeplan/config"
	"github.com/pjaos/chargeplan/connectors"
	"github.com/pjaos/chargeplan/connectors/clients/agile"
	"github.com/pjaos/chargeplan/connectors/factory"
	"github.com/pjaos/chargeplan/core/device"
	"github.com/pjaos/chargeplan/core/events"
	"github.com/pjaos/chargeplan/core/lifecycle"
	coremetrics "github.com/pjaos/chargeplan/core/metrics"
	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/core/plan"
	"github.com/pjaos/chargeplan/core/tariff"
	"github.com/pjaos/chargeplan/infra/logger"
	"github.com/pjaos/chargeplan/infra/metrics"
	"github.com/pjaos/chargeplan/infra/mqtt"
	"github.com/pjaos/chargeplan/infra/myenergi"
	"github.com/pjaos/chargeplan/internal/eventbus"
)

// Service orchestrates the planner, the lifecycle manager and the
// outward-facing surfaces for a single charger.
type Service struct {
	cfg       *config.Config
	planner   *plan.Planner
	manager   *lifecycle.Manager
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus
	announcer *mqtt.Announcer
	tariffCli connectors.TariffClient
	log       logger.Logger
	now       func() time.Time
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := metrics.Build(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	proxy, err := myenergi.NewClient(cfg.Device, logger.New("myenergi"))
	if err != nil {
		return nil, fmt.Errorf("device proxy: %w", err)
	}

	bus := eventbus.New()
	manager := lifecycle.NewManager(proxy, bus, sink, logger.New("lifecycle"))
	planner := plan.NewPlanner(time.Duration(cfg.Charger.SlotWidthMinutes)*time.Minute, logger.New("planner"))
	planner.AdjustmentFactor = cfg.Charger.AdjustmentFactor

	svc := &Service{
		cfg:     cfg,
		planner: planner,
		manager: manager,
		sink:    sink,
		bus:     bus,
		log:     logg,
		now:     time.Now,
	}
	if cfg.Tariff.Mode == config.TariffModeAgile {
		cli, err := factory.NewTariffClient(factory.IDOctopusAgile)
		if err != nil {
			return nil, fmt.Errorf("tariff client: %w", err)
		}
		svc.tariffCli = cli
	}
	if cfg.MQTT.Enabled {
		announcer, err := mqtt.NewAnnouncer(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt announcer: %w", err)
		}
		svc.announcer = announcer
	}
	return svc, nil
}

// DeviceID returns the configured charger label.
func (s *Service) DeviceID() string { return s.cfg.Charger.DeviceID }

// priceSource builds the price source for the planning horizon. Static
// tariffs repeat daily and are never stale; the Agile feed is fetched
// per plan so its coverage reflects what the supplier has published.
func (s *Service) priceSource(ctx context.Context) (tariff.PriceSource, error) {
	switch s.cfg.Tariff.Mode {
	case config.TariffModeStatic:
		return s.cfg.Tariff.Curve()
	case config.TariffModeAgile:
		resp, err := s.tariffCli.Fetch(ctx,
			agile.WithRegion(s.cfg.Tariff.Region),
			agile.WithPeriodFrom(s.now()))
		if err != nil {
			return nil, fmt.Errorf("fetch agile rates: %w", err)
		}
		rates, err := resp.ToRates()
		if err != nil {
			return nil, fmt.Errorf("convert agile rates: %w", err)
		}
		return tariff.NewDayAheadCurve(rates)
	default:
		return nil, fmt.Errorf("unknown tariff mode %s", s.cfg.Tariff.Mode)
	}
}

func (s *Service) freeWindow() *model.FreeEnergyWindow {
	fw := s.cfg.Tariff.FreeWindow
	if fw == nil {
		return nil
	}
	off, err := tariff.ParseOffset(fw.Start)
	if err != nil {
		return nil
	}
	w := plan.NextFreeWindow(s.now(), off, time.Duration(fw.DurationMinutes)*time.Minute)
	return &w
}

// Plan computes the cheapest charge schedule for the request and stores
// it as CALCULATED. Battery capacity and charge rate come from the
// charger configuration.
func (s *Service) Plan(ctx context.Context, req model.ChargeRequest) (model.Schedule, plan.Summary, error) {
	req.BatteryKWh = s.cfg.Charger.BatteryKWh
	req.ChargerRateKW = s.cfg.Charger.RateKW

	prices, err := s.priceSource(ctx)
	if err != nil {
		return model.Schedule{}, plan.Summary{}, err
	}
	sched, summary, err := s.planner.Plan(req, prices, s.freeWindow())
	if err != nil {
		return model.Schedule{}, plan.Summary{}, err
	}

	s.manager.Calculated(s.DeviceID(), sched)
	if err := s.sink.RecordPlan(coremetrics.PlanEvent{
		ScheduleID:     sched.ID,
		DeviceID:       s.DeviceID(),
		Slots:          len(sched.Slots),
		EnergyKWh:      sched.TotalEnergyKWh,
		Cost:           sched.TotalCost,
		MeanPriceKWh:   summary.MeanPriceKWh,
		UnderDelivered: sched.UnderDelivered,
		Shortfall:      sched.Shortfall,
		Time:           s.now(),
	}); err != nil {
		s.log.Warnf("metrics sink: %v", err)
	}
	return sched, summary, nil
}

// Set confirms the calculated schedule onto the charger.
func (s *Service) Set(ctx context.Context) error {
	return s.manager.Set(ctx, s.DeviceID())
}

// Status reads the device back and returns the observed state alongside
// the stored schedule.
func (s *Service) Status(ctx context.Context) (model.ScheduleState, model.Schedule, device.ReadBack, error) {
	state, rb, err := s.manager.Observe(ctx, s.DeviceID())
	sched, _ := s.manager.Schedule(s.DeviceID())
	return state, sched, rb, err
}

// Clear removes the schedule from the charger.
func (s *Service) Clear(ctx context.Context) error {
	return s.manager.Clear(ctx, s.DeviceID())
}

// Run serves the HTTP API and the optional Prometheus endpoint, and
// forwards lifecycle events to the dashboard announcer until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.consumeEvents(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    s.cfg.API.Address,
		Handler: schedule.NewHandler(s),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("schedule API listening on %s", s.cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Service) consumeEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			if ev, ok := e.(events.ScheduleEvent); ok && s.announcer != nil {
				s.announcer.Announce(ev)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.announcer != nil {
		s.announcer.Close()
	}
	s.bus.Close()
	return nil
}
