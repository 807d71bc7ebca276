// Command animplay plays keyframe clips against a scene of named objects and
// optionally streams the resulting poses over MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/clock"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/Carmen-Shannon/oxy-anim/engine/stream"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	configPath := flag.String("config", "animplay.yaml", "YAML config file.")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "animplay:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := readConfig(configPath)
	if err != nil {
		return err
	}
	level, _ := parseLevel(cfg.LogLevel)
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	logger := common.Logger()

	animClock := animation.SystemClock
	if cfg.Clock == "glfw" {
		if err := clock.Init(); err != nil {
			return err
		}
		defer clock.Terminate()
		animClock = clock.NewGLFWClock()
	}

	sc, err := buildScene(cfg, animClock)
	if err != nil {
		return err
	}
	defer sc.Release()

	eng := engine.NewEngine(
		engine.WithTickRate(cfg.TickRate),
		engine.WithProfiling(cfg.Profile),
		engine.WithScene(0, sc),
	)

	if cfg.Mqtt.URL != "" {
		client, err := connect(cfg)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)

		streamer := stream.NewStreamer(client, stream.WithTopic(cfg.Mqtt.Topics.Pose), stream.WithQoS(cfg.Mqtt.QoS))
		eng.SetPostTickCallback(func(float32, int) {
			_ = streamer.PublishScene(sc)
		})
		defer func() {
			logger.Info("animplay: stream closed", "published", streamer.Published(), "failed", streamer.Failed())
		}()

		if cfg.Mqtt.Topics.Control != "" {
			remote := stream.NewRemote(client, cfg.Mqtt.Topics.Control)
			if err := remote.Subscribe(); err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", cfg.Mqtt.Topics.Control, err)
			}
			defer remote.Unsubscribe()
			eng.SetTickCallback(func(float32) { remote.Apply(sc) })
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d, _ := cfg.runFor(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	err = eng.Run(ctx)
	logger.Info("animplay: stopped", "ticks", eng.Ticks(), "elapsed", time.Since(start).Round(time.Millisecond))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// buildScene creates the configured objects and attaches every loaded clip to
// the object its first channel targets.
func buildScene(cfg Config, animClock animation.Clock) (scene.Scene, error) {
	opts := []scene.SceneBuilderOption{scene.WithActive(true)}
	if cfg.Workers > 0 {
		opts = append(opts, scene.WithComputeWorkers(cfg.Workers))
	}
	sc := scene.NewScene("animplay", opts...)

	for _, o := range cfg.Objects {
		objOpts := []game_object.GameObjectBuilderOption{
			game_object.WithName(o.Name),
			game_object.WithPosition(o.Position[0], o.Position[1], o.Position[2]),
			game_object.WithMorphTargets(o.MorphTargets),
		}
		if o.Rotation != nil {
			objOpts = append(objOpts, game_object.WithRotation(*o.Rotation))
		}
		if o.Scale != nil {
			objOpts = append(objOpts, game_object.WithScale(o.Scale[0], o.Scale[1], o.Scale[2]))
		}
		sc.Add(game_object.NewGameObject(objOpts...))
	}

	l := loader.NewLoader(loader.WithClipOptions(animation.WithClock(animClock)))
	for _, cc := range cfg.Clips {
		clipOpts, _ := cc.options()
		clips, err := l.LoadClips(cc.Path, sc, clipOpts...)
		if err != nil {
			sc.Release()
			return nil, err
		}
		for _, clip := range clips {
			owner, ok := clip.Channels()[0].Target().(game_object.GameObject)
			if !ok {
				common.Logger().Warn("animplay: clip target is not a scene object", "clip", clip.Name())
				continue
			}
			owner.AddAnimation(clip)
			common.Logger().Info("animplay: attached clip",
				"clip", clip.Name(), "object", owner.Name(), "duration", clip.Duration(), "channels", len(clip.Channels()))
		}
	}
	return sc, nil
}

func connect(cfg Config) (mqtt.Client, error) {
	mqtt.ERROR = log.New(os.Stderr, "mqtt: ", 0)

	clientID := cfg.Mqtt.ClientID
	if clientID == "" {
		clientID = "animplay"
	}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Mqtt.URL).
		SetClientID(clientID).
		SetUsername(cfg.Mqtt.Username).
		SetPassword(cfg.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			common.Logger().Info("animplay: connected", "broker", cfg.Mqtt.URL)
		})
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Mqtt.URL, token.Error())
	}
	return client, nil
}
