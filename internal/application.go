package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/analytics"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/config"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport/peer"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/ui"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-p2p/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type app struct {
	logger *slog.Logger
	conf   *config.Config
	rand   *rand.Rand

	kv        storage.KeyValue
	directory repository.PeerDirectory
	scores    repository.ScoreRepository
	profile   repository.ProfileRepository
	tracker   *analytics.Tracker
	view      *ui.View

	started atomic.Bool
	wg      sync.WaitGroup
}

// RunApp - runs the client until the player quits or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &app{
		logger: logger,
		conf:   conf,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	redisStorage, err := client.openRedis(ctx)
	if err != nil {
		return err
	}

	if redisStorage != nil {
		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()
	}

	if err = client.openStores(redisStorage); err != nil {
		return err
	}

	emitter := analytics.New(conf.Analytics.BrokerList(), conf.Analytics.Topic)
	defer func() {
		if err = emitter.Close(); err != nil {
			log.Error("could not close analytics emitter", "error", err)
		}
	}()

	client.tracker = analytics.NewTracker(logger, emitter)

	client.view, err = ui.New(logger, client.defaultName(ctx), func(name string) {
		client.login(ctx, name)
	})
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			client.view.Stop()
		case <-ctx.Done():
		}
	}()

	err = client.view.Run()

	cancel()
	client.wg.Wait()

	return err
}

func (that *app) openRedis(ctx context.Context) (*storage.RedisStorage, error) {
	if !that.conf.Storage.UsesRedis() && !that.conf.Directory.UsesRedis() {
		return nil, nil
	}

	redisAddrString := that.conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}

func (that *app) openStores(redisStorage *storage.RedisStorage) error {
	if that.conf.Storage.UsesRedis() {
		that.kv = redisStorage
	} else {
		path, err := storage.DataFilePath(that.conf.Storage.FileName)
		if err != nil {
			return err
		}

		fileStorage, err := storage.NewFileStorage(path)
		if err != nil {
			return fmt.Errorf("could not open file storage: %w", err)
		}

		that.kv = fileStorage
	}

	if that.conf.Directory.UsesRedis() {
		that.directory = repository.NewPeerDirectory(redisStorage.Connection)
	} else {
		that.directory = repository.NewStaticDirectory(that.conf.Directory.Peers)
	}

	that.scores = repository.NewScoreRepository(that.kv)
	that.profile = repository.NewProfileRepository(that.kv)

	return nil
}

func (that *app) defaultName(ctx context.Context) string {
	stored, err := that.profile.Load(ctx)
	if err == nil {
		return stored.DisplayName
	}

	return that.conf.Player.Name
}

// login runs once per process; a failed attempt leaves the form up for another try.
func (that *app) login(ctx context.Context, name string) {
	if !that.started.CompareAndSwap(false, true) {
		return
	}

	go func() {
		if err := that.start(ctx, name); err != nil {
			that.logger.Error("failed to start", "component", "app", "error", err)
			that.started.Store(false)
			that.view.LoginFailed(err)
		}
	}()
}

func (that *app) start(ctx context.Context, name string) error {
	log := that.logger.With("component", "app", "method", "start")

	local, err := that.identity(ctx, name)
	if err != nil {
		return err
	}

	node, err := peer.NewNode(that.logger, local.ID, that.directory, peer.Options{
		AdvertiseAddr: that.conf.Peer.AdvertiseAddr,
		DialTimeout:   that.conf.Peer.DialTimeout,
		TTL:           that.conf.Directory.TTL,
	})
	if err != nil {
		return err
	}

	match, err := usecase.NewMatch(that.logger, that.scores, that.view, usecase.MatchOptions{
		Local:   local,
		Variant: that.conf.Variant,
		Rand:    rand.New(rand.NewSource(that.rand.Int63())),
		Tracker: that.tracker,
	})
	if err != nil {
		return err
	}

	loop := usecase.NewLoop(that.logger, match, node, that.view)
	router := rest.NewRouter(that.logger, node, rest.NewScoreHandler(that.logger, that.scores, local.ID))

	that.goRun(log, "http", func() error {
		return rest.Start(ctx, that.conf.Peer.ListenAddr, router)
	})
	that.goRun(log, "node", func() error {
		return node.Run(ctx)
	})
	that.goRun(log, "loop", func() error {
		return loop.Run(ctx)
	})

	log.Info("player ready", "id", local.ID, "listen", that.conf.Peer.ListenAddr)
	that.view.Bind(loop, local)

	return nil
}

func (that *app) goRun(log *slog.Logger, name string, run func() error) {
	that.wg.Add(1)

	go func() {
		defer that.wg.Done()

		if err := run(); err != nil {
			log.Error("component stopped", "name", name, "error", err)
			that.view.Notice(fmt.Sprintf("%s stopped: %v", name, err))
		}
	}()
}

// identity reuses the stored id while the name is unchanged.
func (that *app) identity(ctx context.Context, name string) (entity.PlayerIdentity, error) {
	stored, err := that.profile.Load(ctx)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		that.logger.Warn("failed to load profile", "error", err)
	}

	if err == nil && stored.DisplayName == entity.SanitizeName(name) && stored.ID != "" {
		return stored, nil
	}

	local, err := entity.NewPlayerIdentity(name, that.rand)
	if err != nil {
		return entity.PlayerIdentity{}, err
	}

	if err = that.profile.Save(ctx, local); err != nil {
		that.logger.Warn("failed to save profile", "error", err)
	}

	return local, nil
}
