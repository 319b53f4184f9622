package apihandlers

import (
	"net/http"
	"time"

	assessmentDB "github.com/wttaideveloper/MentalHealth-sub002/pkg/db/assessment"
	platformuserDB "github.com/wttaideveloper/MentalHealth-sub002/pkg/db/platform-user"
	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdminAccount is a statically configured admin login.
type AdminAccount struct {
	AccountID    string `json:"account_id" yaml:"account_id"`
	PasswordHash string `json:"password_hash" yaml:"password_hash"`
	IsAdmin      bool   `json:"is_admin" yaml:"is_admin"`
}

type HttpEndpoints struct {
	assessmentDBConn   *assessmentDB.AssessmentDBService
	userDBConn         *platformuserDB.PlatformUserDBService
	tokenSignKey       string
	tokenExpiresIn     time.Duration
	allowedInstanceIDs []string
	adminAccounts      []AdminAccount
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	assessmentDBConn *assessmentDB.AssessmentDBService,
	userDBConn *platformuserDB.PlatformUserDBService,
	allowedInstanceIDs []string,
	adminAccounts []AdminAccount,
) *HttpEndpoints {
	return &HttpEndpoints{
		tokenSignKey:       tokenSignKey,
		tokenExpiresIn:     tokenExpiresIn,
		assessmentDBConn:   assessmentDBConn,
		userDBConn:         userDBConn,
		allowedInstanceIDs: allowedInstanceIDs,
		adminAccounts:      adminAccounts,
	}
}

func (h *HttpEndpoints) isInstanceAllowed(instanceID string) bool {
	for _, id := range h.allowedInstanceIDs {
		if id == instanceID {
			return true
		}
	}
	return false
}
