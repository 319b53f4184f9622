package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/db"
	emailsending "github.com/wttaideveloper/MentalHealth-sub002/pkg/messaging/email-sending"
	smtpclient "github.com/wttaideveloper/MentalHealth-sub002/pkg/smtp-client"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/pwhash"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/utils"
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

	ENV_PARTICIPANT_USER_JWT_SIGN_KEY = "PARTICIPANT_USER_JWT_SIGN_KEY"
)

type ParticipantApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		ParticipantUserJWTConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"participant_user_jwt_config" yaml:"participant_user_jwt_config"`
	} `json:"user_management_config" yaml:"user_management_config"`

	AllowedInstanceIDs []string `json:"allowed_instance_ids" yaml:"allowed_instance_ids"`

	// DB configs
	DBConfigs struct {
		AssessmentDB   db.DBConfigYaml `json:"assessment_db" yaml:"assessment_db"`
		PlatformUserDB db.DBConfigYaml `json:"platform_user_db" yaml:"platform_user_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// Messaging configs
	MessagingConfigs struct {
		SmtpServerConfigPath         string            `json:"smtp_server_config_path" yaml:"smtp_server_config_path"`
		GlobalEmailTemplateConstants map[string]string `json:"global_email_template_constants" yaml:"global_email_template_constants"`
	} `json:"messaging_configs" yaml:"messaging_configs"`
}

var (
	conf ParticipantApiConfig

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

	// init argon2
	pwhash.InitArgonParams(
		conf.UserManagementConfig.PWHashing.Argon2Memory,
		conf.UserManagementConfig.PWHashing.Argon2Iterations,
		conf.UserManagementConfig.PWHashing.Argon2Parallelism,
	)

	// init message sending
	initMessageSendingConfig()

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

	if participantUserJwtSignKey := os.Getenv(ENV_PARTICIPANT_USER_JWT_SIGN_KEY); participantUserJwtSignKey != "" {
		conf.UserManagementConfig.ParticipantUserJWTConfig.SignKey = participantUserJwtSignKey
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

func initMessageSendingConfig() {
	if conf.MessagingConfigs.SmtpServerConfigPath == "" {
		slog.Warn("smtp server config path not set, email sending disabled")
		return
	}

	var serverList smtpclient.SmtpServerList
	if err := serverList.ReadFromFile(conf.MessagingConfigs.SmtpServerConfigPath); err != nil {
		slog.Error("failed to read smtp server config", slog.String("error", err.Error()))
		return
	}

	smtpClients, err := smtpclient.NewSmtpClients(serverList)
	if err != nil {
		slog.Error("failed to init smtp clients", slog.String("error", err.Error()))
		return
	}

	emailsending.InitMessageSendingVariables(
		smtpClients,
		conf.MessagingConfigs.GlobalEmailTemplateConstants,
	)
}
