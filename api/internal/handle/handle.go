package handle

import (
	"github.com/gin-gonic/gin"

	"github.com/Melonns/PlantifyBE/api/internal/middleware"
	"github.com/Melonns/PlantifyBE/api/internal/scan"
	"github.com/Melonns/PlantifyBE/api/internal/store"
)

// Handle bundles the HTTP handlers and their collaborators. Users and Tokens
// are nil when the service runs without a database.
type Handle struct {
	Scanner *scan.Scanner
	Users   *store.UserRepo
	Tokens  *middleware.TokenManager
}

func New(scanner *scan.Scanner) *Handle {
	return &Handle{Scanner: scanner}
}

// envelope is the JSON response wrapper the mobile client expects.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Status: "success", Message: message, Data: data})
}

func fail(c *gin.Context, code int, message string, err error) {
	e := envelope{Status: "error", Message: message}
	if err != nil {
		e.Error = err.Error()
	}
	c.JSON(code, e)
}
