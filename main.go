package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
	"github.com/Demmenty/BlackJack-vkbot-project/game"
	"github.com/Demmenty/BlackJack-vkbot-project/internal"
	"github.com/Demmenty/BlackJack-vkbot-project/logging"
	"github.com/Demmenty/BlackJack-vkbot-project/relay"
	"github.com/Demmenty/BlackJack-vkbot-project/rest"
	"github.com/Demmenty/BlackJack-vkbot-project/timer"
	"github.com/Demmenty/BlackJack-vkbot-project/util"
	"github.com/Demmenty/BlackJack-vkbot-project/vk"
)

var mainLogger = logging.GetZeroLogger("main::main", os.Stdout)

func main() {
	zerolog.SetGlobalLevel(util.Env.GetZeroLogLogLevel())

	var timingsFile = flag.String("timings", "timings.yaml", "stage timeout configuration file")
	flag.Parse()

	timings, err := game.ParseTimingConfig(*timingsFile)
	if err != nil {
		mainLogger.Warn().Msgf("Using default timings: %s", err)
		timings = game.DefaultTimings
	}

	store, err := game.NewPostgresStore(internal.GetGameConnStr())
	if err != nil {
		mainLogger.Fatal().Msgf("Could not open store: %s", err)
	}

	client := vk.NewClient(util.Env.GetVKToken())
	sender := vk.NewSender(client)
	directory, err := vk.NewDirectory(client)
	if err != nil {
		mainLogger.Fatal().Msgf("Could not create user directory: %s", err)
	}

	scheduler := timer.NewScheduler()
	notifier := game.NewNotifier(sender)
	manager := game.NewManager(store, deck.NewEndless(nil), notifier, scheduler, timings)
	handler := game.NewHandler(manager, notifier, directory, directory)
	router := game.NewRouter(handler, manager)

	natsURL := util.Env.GetNatsURL()
	mainLogger.Info().Msgf("Connecting to nats at %s", natsURL)
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		mainLogger.Fatal().Msgf("Could not connect to nats: %s", err)
	}
	defer nc.Close()

	// Recovery must finish before any chat command can arrive, otherwise a
	// player could act on a round the recovery is still re-arming.
	if err := manager.Recover(context.Background()); err != nil {
		mainLogger.Error().Msgf("Recovery failed: %s", err)
	}

	sub, err := relay.Subscribe(nc, router)
	if err != nil {
		mainLogger.Fatal().Msgf("Could not subscribe to updates: %s", err)
	}
	defer sub.Close()

	go func() {
		adminAPI := rest.NewServer(store, util.Env.GetAdminToken())
		if err := adminAPI.Run(util.Env.GetListenPort()); err != nil {
			mainLogger.Fatal().Msgf("Admin API stopped: %s", err)
		}
	}()

	mainLogger.Info().Msg("Game service is up")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	mainLogger.Info().Msg("Shutting down")
	scheduler.Shutdown()
}
