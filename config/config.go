package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Quest     QuestConfigs    `toml:"quest"`
	Cron      CronConfigs     `toml:"cron"`
	Redis     RedisConfigs    `toml:"redis"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host         string `toml:"host"`
	Port         string `toml:"port"`
	DefaultLimit int    `toml:"default_limit"`
	MaxLimit     int    `toml:"max_limit"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type QuestConfigs struct {
	// VolunteerBonus is recorded on self-claimed family quests.
	VolunteerBonus float64 `toml:"volunteer_bonus"`

	// BossJoinWindow is the default time participants have to join a boss
	// battle after it is created.
	BossJoinWindow time.Duration `toml:"boss_join_window"`
}

type CronConfigs struct {
	// Secret guards the /cron endpoints invoked by the external scheduler.
	Secret string `toml:"secret"`

	GenerateInterval time.Duration `toml:"generate_interval"`
	ExpireInterval   time.Duration `toml:"expire_interval"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

// Load reads configurations from the TOML file at path, then overrides
// credentials with environment variables when they are set. A missing file is
// not an error so the service can run on environment variables alone.
func Load(path string) (Configs, error) {
	cfg := Configs{
		Env: "local",
		ApiServer: ServerConfigs{
			Host:         "0.0.0.0",
			Port:         "8080",
			DefaultLimit: 20,
			MaxLimit:     50,
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{Name: "access_token", Expiration: 24 * time.Hour},
		},
		Quest: QuestConfigs{
			VolunteerBonus: 0.2,
			BossJoinWindow: 30 * time.Minute,
		},
		Cron: CronConfigs{
			GenerateInterval: 5 * time.Minute,
			ExpireInterval:   5 * time.Minute,
		},
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Configs{}, err
		}
	}

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Database, "DB_DATABASE")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.ApiServer.Port, "PORT")
	overrideString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	overrideString(&cfg.Cron.Secret, "CRON_SECRET")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")

	return cfg, nil
}

func overrideString(target *string, env string) {
	if value := os.Getenv(env); value != "" {
		*target = value
	}
}
