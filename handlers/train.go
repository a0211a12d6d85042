package handlers

import (
	"errors"
	"net/http"

	"attendance/recog"

	"github.com/gin-gonic/gin"
)

// TrainModel rebuilds the model artifact from the full sample corpus.
func TrainModel(c *gin.Context) {
	identities, err := recog.Train(engine)
	if errors.Is(err, recog.ErrEmptyCorpus) {
		c.JSON(http.StatusConflict, Response{Error: "no enrollment samples, capture some first"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identities": identities})
}
