package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/db"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/utils"
	"github.com/wttaideveloper/MentalHealth-sub002/services/admin-api/apihandlers"
	"github.com/gin-gonic/gin"
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

	ENV_ADMIN_USER_JWT_SIGN_KEY = "ADMIN_USER_JWT_SIGN_KEY"
)

type AdminApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	AdminUserJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"admin_user_jwt_config" yaml:"admin_user_jwt_config"`

	AdminAccounts []apihandlers.AdminAccount `json:"admin_accounts" yaml:"admin_accounts"`

	AllowedInstanceIDs []string `json:"allowed_instance_ids" yaml:"allowed_instance_ids"`

	// DB configs
	DBConfigs struct {
		AssessmentDB   db.DBConfigYaml `json:"assessment_db" yaml:"assessment_db"`
		PlatformUserDB db.DBConfigYaml `json:"platform_user_db" yaml:"platform_user_db"`
	} `json:"db_configs" yaml:"db_configs"`
}

var (
	conf AdminApiConfig

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

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	assessment.Init(assessmentDBService, platformUserDBService)
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

	if adminUserJwtSignKey := os.Getenv(ENV_ADMIN_USER_JWT_SIGN_KEY); adminUserJwtSignKey != "" {
		conf.AdminUserJWTConfig.SignKey = adminUserJwtSignKey
	}
}

func initDBs() {
	var err error
	assessmentDBService, err = assessmentDB.NewAssessmentDBService(db.DBConfigFromYamlObj(conf.DBConfigs.AssessmentDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Assessment DB", slog.String("error", err.Error()))
		return
	}

	platformUserDBService, err = userDB.NewPlatformUserDBService(db.DBConfigFromYamlObj(conf.DBConfigs.PlatformUserDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Platform User DB", slog.String("error", err.Error()))
		return
	}
}
