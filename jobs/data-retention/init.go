package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/db"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/utils"
	"gopkg.in/yaml.v2"

	assessmentDB "github.com/wttaideveloper/MentalHealth-sub002/pkg/db/assessment"
	userDB "github.com/wttaideveloper/MentalHealth-sub002/pkg/db/platform-user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ASSESSMENT_DB_USERNAME    = "ASSESSMENT_DB_USERNAME"
	ENV_ASSESSMENT_DB_PASSWORD    = "ASSESSMENT_DB_PASSWORD"
	ENV_PLATFORM_USER_DB_USERNAME = "PLATFORM_USER_DB_USERNAME"
	ENV_PLATFORM_USER_DB_PASSWORD = "PLATFORM_USER_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		AssessmentDB   db.DBConfigYaml `json:"assessment_db" yaml:"assessment_db"`
		PlatformUserDB db.DBConfigYaml `json:"platform_user_db" yaml:"platform_user_db"`
	} `json:"db_configs" yaml:"db_configs"`

	InstanceIDs []string `json:"instance_ids" yaml:"instance_ids"`

	RetentionConfig struct {
		ExpireAttemptsAfter    time.Duration `json:"expire_attempts_after" yaml:"expire_attempts_after"`
		DeleteMarkedUsersAfter time.Duration `json:"delete_marked_users_after" yaml:"delete_marked_users_after"`
	} `json:"retention_config" yaml:"retention_config"`

	RunTasks struct {
		ExpireStaleAttempts bool `json:"expire_stale_attempts" yaml:"expire_stale_attempts"`
		DeleteMarkedUsers   bool `json:"delete_marked_users" yaml:"delete_marked_users"`
	} `json:"run_tasks" yaml:"run_tasks"`
}

var conf config

var (
	assessmentDBService   *assessmentDB.AssessmentDBService
	platformUserDBService *userDB.PlatformUserDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	// check config values:
	if conf.RunTasks.ExpireStaleAttempts && conf.RetentionConfig.ExpireAttemptsAfter == 0 {
		slog.Error("ExpireAttemptsAfter is not set")
		panic("ExpireAttemptsAfter is not set")
	}

	if conf.RunTasks.DeleteMarkedUsers && conf.RetentionConfig.DeleteMarkedUsersAfter == 0 {
		slog.Error("DeleteMarkedUsersAfter is not set")
		panic("DeleteMarkedUsersAfter is not set")
	}

	// init db
	initDBs()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ASSESSMENT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AssessmentDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ASSESSMENT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AssessmentDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_PLATFORM_USER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.PlatformUserDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_PLATFORM_USER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.PlatformUserDB.Password = dbPassword
	}
}

func initDBs() {
	var err error
	assessmentDBService, err = assessmentDB.NewAssessmentDBService(db.DBConfigFromYamlObj(conf.DBConfigs.AssessmentDB, conf.InstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Assessment DB", slog.String("error", err.Error()))
		panic(err)
	}

	platformUserDBService, err = userDB.NewPlatformUserDBService(db.DBConfigFromYamlObj(conf.DBConfigs.PlatformUserDB, conf.InstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Platform User DB", slog.String("error", err.Error()))
		panic(err)
	}
}
