package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"procurement" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		MaxOpenConns   int    `default:"10" env:"DB_MAX_OPEN_CONNS"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"AUTH_JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"AUTH_JWT_EXPIRE_IN_SEC"`
	}
	Approval struct {
		AutoLimit        int64 `default:"500" env:"APPROVAL_AUTO_LIMIT"`
		AdminLimit       int64 `default:"2000" env:"APPROVAL_ADMIN_LIMIT"`
		ApproverSLAHours int   `default:"48" env:"APPROVAL_APPROVER_SLA_HOURS"`
		AdminSLAHours    int   `default:"24" env:"APPROVAL_ADMIN_SLA_HOURS"`
	}
	Scheduler struct {
		Secret                string `default:"" env:"SCHEDULER_SECRET"`
		EscalationWindowHours int    `default:"4" env:"SCHEDULER_ESCALATION_WINDOW_HOURS"`
		RunIntervalMin        int    `default:"5" env:"SCHEDULER_RUN_INTERVAL_MIN"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
