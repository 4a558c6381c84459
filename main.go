package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	configx "github.com/tanpawarit/cauldron-reservations/pkg/config"
	_ "github.com/tanpawarit/cauldron-reservations/pkg/logger/autoload"
	postgresx "github.com/tanpawarit/cauldron-reservations/pkg/postgres"
	qstashx "github.com/tanpawarit/cauldron-reservations/pkg/qstash"
	auditx "github.com/tanpawarit/cauldron-reservations/reservation/audit"
	availabilityx "github.com/tanpawarit/cauldron-reservations/reservation/availability"
	catalogx "github.com/tanpawarit/cauldron-reservations/reservation/catalog"
	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
	dispatchx "github.com/tanpawarit/cauldron-reservations/reservation/dispatch"
	infox "github.com/tanpawarit/cauldron-reservations/reservation/info"
	ledgerx "github.com/tanpawarit/cauldron-reservations/reservation/ledger"
	notifyx "github.com/tanpawarit/cauldron-reservations/reservation/notify"
)

type AppConfig struct {
	DefaultYear       int    `split_words:"true" default:"2024"`
	SearchHorizonDays int    `split_words:"true" default:"90"`
	SeedOnStart       bool   `split_words:"true" default:"true"`
	NotifyDestination string `split_words:"true"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	catalog := catalogx.MustNew(*configx.MustNew[catalogx.Config]("CATALOG"))

	db := postgresx.MustNew(ctx, *configx.MustNew[postgresx.Config]("POSTGRES"))
	defer db.Close()

	if err := ledgerx.CreateSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("create ledger schema")
	}
	if err := infox.CreateSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("create info schema")
	}

	ledger := ledgerx.New(db, catalog)
	index := availabilityx.New(db, catalog, appCfg.SearchHorizonDays)
	info := infox.New(db)

	if appCfg.SeedOnStart {
		today := contractx.NewDate(time.Now().UTC())
		if err := ledger.SeedHorizon(ctx, today, appCfg.SearchHorizonDays); err != nil {
			log.Fatal().Err(err).Msg("seed availability horizon")
		}
	}

	var notifier contractx.Notifier = notifyx.Noop{}
	if appCfg.NotifyDestination != "" {
		qstashClient := qstashx.MustNew(*configx.MustNew[qstashx.Config]("QSTASH"))
		notifier = notifyx.NewQStashNotifier(qstashClient, appCfg.NotifyDestination)
	}

	deps := dispatchx.Deps{
		Ledger:       ledger,
		Index:        index,
		Info:         info,
		Notifier:     notifier,
		Audit:        auditx.LogRecorder{},
		Parser:       dispatchx.Parser{DefaultYear: appCfg.DefaultYear},
		ServiceTimes: catalog.ServiceTimes(),
	}

	bookingInfos, _ := dispatchx.Build(dispatchx.GroupBookings, deps)
	infoInfos, _ := dispatchx.Build(dispatchx.GroupRestaurantInfo, deps)

	log.Info().
		Int("booking_tools", len(bookingInfos)).
		Int("info_tools", len(infoInfos)).
		Msg("reservation core ready")
}
