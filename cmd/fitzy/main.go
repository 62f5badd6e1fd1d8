package main

import (
	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/clock"
	"github.com/mutazsaeed/fitzy/internal/config"
	"github.com/mutazsaeed/fitzy/internal/report"
	"github.com/mutazsaeed/fitzy/internal/seed"
	"github.com/mutazsaeed/fitzy/internal/server"
	"github.com/mutazsaeed/fitzy/internal/visit"
	"github.com/mutazsaeed/fitzy/pkg/db"
	"github.com/mutazsaeed/fitzy/pkg/log"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		// core infrastructure
		config.Module,
		log.Module,
		db.Module,
		clock.Module,
		cache.Module,

		// functional domains
		visit.Module,
		report.Module,

		// seed runs before the HTTP server accepts traffic
		seed.Module,
		server.Module,
	).Run()
}
