package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"

	DirectoryRedis  = "redis"
	DirectoryStatic = "static"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile   string    `yaml:"log-file" env:"LOG_FILE" env-default:""`
	Variant   string    `yaml:"variant" env:"GAME_VARIANT" env-default:"classic"`
	Player    Player    `yaml:"player"`
	Peer      Peer      `yaml:"peer"`
	Storage   Storage   `yaml:"storage"`
	Directory Directory `yaml:"directory"`
	Redis     Redis     `yaml:"redis"`
	Analytics Analytics `yaml:"analytics"`
}

// Player is only a default for the login form; the stored profile wins when present.
type Player struct {
	Name string `yaml:"name" env:"PLAYER_NAME" env-default:""`
}

type Peer struct {
	ListenAddr    string        `yaml:"listen-addr" env:"PEER_LISTEN_ADDR" env-default:":7070"`
	AdvertiseAddr string        `yaml:"advertise-addr" env:"PEER_ADVERTISE_ADDR" env-default:"localhost:7070"`
	DialTimeout   time.Duration `yaml:"dial-timeout" env-default:"5s"`
}

type Storage struct {
	Driver   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	FileName string `yaml:"file-name" env-default:"tictactoe-p2p/store.json"`
}

type Directory struct {
	Driver string            `yaml:"driver" env:"DIRECTORY_DRIVER" env-default:"redis"`
	TTL    time.Duration     `yaml:"ttl" env-default:"60s"`
	Peers  map[string]string `yaml:"peers"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Analytics stays off while Brokers is empty.
type Analytics struct {
	Brokers string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:""`
	Topic   string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"game.analytics"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Storage) UsesRedis() bool {
	return that.Driver == StorageRedis
}

func (that *Directory) UsesRedis() bool {
	return that.Driver == DirectoryRedis
}

// BrokerList splits the comma separated broker addresses.
func (that *Analytics) BrokerList() []string {
	var brokers []string

	for _, broker := range strings.Split(that.Brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return brokers
}
