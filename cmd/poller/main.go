package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/Demmenty/BlackJack-vkbot-project/logging"
	"github.com/Demmenty/BlackJack-vkbot-project/relay"
	"github.com/Demmenty/BlackJack-vkbot-project/util"
	"github.com/Demmenty/BlackJack-vkbot-project/vk"
)

var mainLogger = logging.GetZeroLogger("poller::main", os.Stdout)

func main() {
	zerolog.SetGlobalLevel(util.Env.GetZeroLogLogLevel())

	natsURL := util.Env.GetNatsURL()
	mainLogger.Info().Msgf("Connecting to nats at %s", natsURL)
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		mainLogger.Fatal().Msgf("Could not connect to nats: %s", err)
	}
	defer nc.Close()
	publisher := relay.NewPublisher(nc)

	client := vk.NewClient(util.Env.GetVKToken())
	cursor := vk.NewRedisCursorStore(
		util.Env.GetRedisHost(),
		util.Env.GetRedisPort(),
		util.Env.GetRedisPW(),
		util.Env.GetRedisDB(),
	)
	poller := vk.NewPoller(client, int64(util.Env.GetVKGroupID()), cursor, publisher.PublishUpdate)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		mainLogger.Info().Msg("Shutting down")
		cancel()
	}()

	mainLogger.Info().Msg("Poller is up")
	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		mainLogger.Fatal().Msgf("Poller stopped: %s", err)
	}
}
