package config

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FEED_SOURCE", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("ISSUE_DAILY_LIMIT", "")

	cfg, err := Load()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Feed.Source).Equal(FeedSourcePostgres)
	gt.Value(t, cfg.App.Port).Equal("8080")
	gt.Value(t, cfg.Issues.DailyReportLimit).Equal(10)
	gt.Value(t, cfg.Feed.ReconnectDelay()).Equal(5 * time.Second)
}

func TestLoad_FeedSource(t *testing.T) {
	t.Setenv("FEED_SOURCE", "Redis")
	cfg, err := Load()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Feed.Source).Equal(FeedSourceRedis)

	t.Setenv("FEED_SOURCE", "kafka")
	_, err = Load()
	gt.Value(t, err).NotNil()
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("LIVE_RESYNC_INTERVAL_SECONDS", "soon")
	cfg, err := Load()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Live.ResyncInterval()).Equal(300 * time.Second)
}
