package main

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
)

// initSentry enables error reporting when a DSN is configured. The returned
// func flushes pending events.
func initSentry(dsn string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return nil, err
	}
	return func() { sentry.Flush(5 * time.Second) }, nil
}

// reportRunError sends err to sentry tagged with the run it came from. It
// is a no-op when sentry was not initialised.
func reportRunError(err error, fields logrus.Fields) {
	hub := sentry.CurrentHub().Clone()
	if hub.Client() == nil {
		return
	}
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range fields {
			scope.SetTag(k, fmt.Sprint(v))
		}
	})
	hub.CaptureException(err)
}

// startStatsView serves runtime charts on addr until the returned stop func
// is called.
func startStatsView(addr string) func() {
	if addr == "" {
		return func() {}
	}
	viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()
	log.WithField("addr", "http://"+addr+"/debug/statsview").Info("statsview started")
	return mgr.Stop
}
