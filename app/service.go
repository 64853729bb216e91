package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kilianp07/powerplan/api/hub"
	"github.com/kilianp07/powerplan/config"
	"github.com/kilianp07/powerplan/core/dispatch"
	"github.com/kilianp07/powerplan/core/events"
	corehistory "github.com/kilianp07/powerplan/core/history"
	coremetrics "github.com/kilianp07/powerplan/core/metrics"
	coremon "github.com/kilianp07/powerplan/core/monitoring"
	"github.com/kilianp07/powerplan/infra/history"
	"github.com/kilianp07/powerplan/infra/logger"
	"github.com/kilianp07/powerplan/infra/metrics"
	"github.com/kilianp07/powerplan/infra/monitoring"
	"github.com/kilianp07/powerplan/infra/mqtt"
	"github.com/kilianp07/powerplan/internal/eventbus"
)

// Service wires the plan manager to the HTTP API and the notifiers.
type Service struct {
	Manager *dispatch.PlanManager
	Hub     *hub.Hub
	History corehistory.Store

	cfg    *config.Config
	bus    *eventbus.Bus[events.PlanComputed]
	relay  *Relay
	mqtt   *mqtt.PahoClient
	server *http.Server
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Options()); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := newPlanBus(logger.New("eventbus"))
	manager, err := dispatch.NewPlanManager(cfg.Dispatch, sink, bus, logger.New("dispatch"))
	if err != nil {
		return nil, fmt.Errorf("plan manager: %w", err)
	}

	store, err := history.New(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	h := hub.New(logger.New("hub"))
	relay := NewRelay(bus.Subscribe(), logger.New("relay"))
	relay.Add("history", corehistory.Recorder{Store: store})
	relay.Add("websocket", h)

	svc := &Service{
		Manager: manager,
		Hub:     h,
		History: store,
		cfg:     cfg,
		bus:     bus,
		relay:   relay,
		log:     logg,
	}
	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
		relay.Add("mqtt", client)
	}

	router := NewRouter(manager, h, store, logger.New("http"))
	svc.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           withCORS(router, cfg.HTTP.CORSOrigins),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout(),
		ReadTimeout:       cfg.HTTP.ReadTimeout(),
		WriteTimeout:      cfg.HTTP.WriteTimeout(),
	}
	return svc, nil
}

// newPlanBus creates the bus feeding the relay. Dropped plans never reach
// the history or the subscribers, so each drop is logged and counted.
func newPlanBus(log logger.Logger) *eventbus.Bus[events.PlanComputed] {
	var bus *eventbus.Bus[events.PlanComputed]
	bus = eventbus.New[events.PlanComputed](
		eventbus.WithBuffer(relayBuffer),
		eventbus.WithDropHandler(func() {
			droppedEvents.Inc()
			log.Warnf("notification relay is falling behind, %d plans dropped so far", bus.Dropped())
		}),
	)
	return bus
}

// Handler returns the HTTP handler served by the service.
func (s *Service) Handler() http.Handler { return s.server.Handler }

// Run serves the API on the configured address until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	coremon.Go(func() { s.relay.Run(ctx) })
	if addr := s.cfg.Metrics.PrometheusAddress; addr != "" {
		coremon.Go(func() {
			if err := metrics.StartPromServer(ctx, addr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		})
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving production plans on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout())
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	err := s.Hub.Close()
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if herr := s.History.Close(); herr != nil {
		err = errors.Join(err, herr)
	}
	coremon.Flush(2 * time.Second)
	return err
}
