package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/theoremus-urban-solutions/rider-nav/config"
	"github.com/theoremus-urban-solutions/rider-nav/engine"
	"github.com/theoremus-urban-solutions/rider-nav/geo"
	"github.com/theoremus-urban-solutions/rider-nav/internal"
	"github.com/theoremus-urban-solutions/rider-nav/route"
	"github.com/theoremus-urban-solutions/rider-nav/stream"
	"github.com/theoremus-urban-solutions/rider-nav/telemetry"
)

func main() {
	mode := flag.String("mode", "observe", "observe|report")
	configPath := flag.String("config", "", "engine config file (YAML)")
	subject := flag.String("subject", "", "subject id to track (delivery/rider id)")
	feedURL := flag.String("feed", "", "location feed URL (overrides config)")
	pushURL := flag.String("push", "", "location-update endpoint URL (overrides config)")
	routePath := flag.String("route", "", "route JSON file; starts turn-by-turn guidance")
	lat := flag.Float64("lat", 0, "report mode: latitude to push")
	lng := flag.Float64("lng", 0, "report mode: longitude to push")
	status := flag.String("status", "available", "report mode: delivery/availability status")
	flag.Parse()

	internal.InitLogging()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *feedURL != "" {
		cfg.Stream.FeedURL = *feedURL
	}
	if *pushURL != "" {
		cfg.Stream.PushURL = *pushURL
	}

	switch *mode {
	case "observe":
		runObserve(cfg, *subject, *routePath)
	case "report":
		runReport(cfg, *subject, *lat, *lng, *status)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// consoleSpeaker is the host's speak capability: announcements go to the log.
type consoleSpeaker struct{}

func (consoleSpeaker) Speak(text string) { log.Printf("announce: %s", text) }
func (consoleSpeaker) Cancel()           {}

func runObserve(cfg config.EngineConfig, subject, routePath string) {
	if subject == "" {
		log.Fatalf("observe mode requires -subject")
	}
	if cfg.Stream.FeedURL == "" {
		log.Fatalf("observe mode requires a feed URL (config stream.feedURL or -feed)")
	}

	session := engine.NewSession(cfg, engine.Deps{
		Dialer:  stream.NewWebsocketDialer(),
		Timers:  stream.SystemTimers{},
		Clock:   stream.SystemClock{},
		Speaker: consoleSpeaker{},
	}, engine.Callbacks{
		OnDisplay: func(d telemetry.Display) {
			line := fmt.Sprintf("%.6f,%.6f", d.Lat, d.Lng)
			if d.SpeedLabel != "" {
				line += "  " + d.SpeedLabel
			}
			if d.StatusLabel != "" {
				line += "  " + d.StatusLabel
			}
			log.Printf("position: %s (%s)", line, d.UpdatedLabel)
		},
		OnConnState: func(s stream.ConnState) {
			log.Printf("stream: %s", s)
		},
		OnStepChange: func(i int, step route.Step) {
			log.Printf("step %d: %s [%s]", i, step.SpokenText, step.Maneuver.Icon())
		},
		OnArrival: func() {
			log.Printf("arrived at destination")
		},
	})
	defer session.Close()

	if routePath != "" {
		r, err := loadRoute(routePath)
		if err != nil {
			log.Fatalf("route: %v", err)
		}
		session.StartNavigation(r)
		meters, seconds := session.Machine().Remaining()
		log.Printf("navigating: %s, %s remaining",
			geo.FormatDistance(meters), geo.FormatDuration(seconds))
	}

	session.Track(subject)
	waitForShutdown()
}

func runReport(cfg config.EngineConfig, subject string, lat, lng float64, status string) {
	if subject == "" {
		log.Fatalf("report mode requires -subject")
	}
	if cfg.Stream.PushURL == "" {
		log.Fatalf("report mode requires a push URL (config stream.pushURL or -push)")
	}

	reporter := stream.NewReporter(subject, cfg.Stream, stream.NewHTTPPusher(cfg.Stream.PushURL), stream.SystemTimers{})
	reporter.UpdatePosition(lat, lng, nil, nil)
	reporter.SetStatus(status)
	reporter.SetOnline(true)
	defer reporter.Stop()

	log.Printf("reporting %q at %.6f,%.6f every %ds", subject, lat, lng, cfg.Stream.ReportIntervalS)
	waitForShutdown()
}

func loadRoute(path string) (*route.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r route.Route
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &r, nil
}

func waitForShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
}
