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

type HttpEndpoints struct {
	assessmentDBConn   *assessmentDB.AssessmentDBService
	userDBConn         *platformuserDB.PlatformUserDBService
	tokenSignKey       string
	tokenExpiresIn     time.Duration
	allowedInstanceIDs []string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	assessmentDBConn *assessmentDB.AssessmentDBService,
	userDBConn *platformuserDB.PlatformUserDBService,
	allowedInstanceIDs []string,
) *HttpEndpoints {
	return &HttpEndpoints{
		tokenSignKey:       tokenSignKey,
		tokenExpiresIn:     tokenExpiresIn,
		assessmentDBConn:   assessmentDBConn,
		userDBConn:         userDBConn,
		allowedInstanceIDs: allowedInstanceIDs,
	}
}
