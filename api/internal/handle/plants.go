package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type plantSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GetAllPlants serves the static starter catalog the app shows before the
// first scan.
func (h *Handle) GetAllPlants(c *gin.Context) {
	plants := []plantSummary{
		{ID: 1, Name: "Monstera"},
		{ID: 2, Name: "Lidah Buaya"},
	}
	ok(c, http.StatusOK, "", plants)
}
