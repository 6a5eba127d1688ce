package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness. The POST variant echoes back a parsed timestamp
// so clients can probe timestamp handling without writing anything.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "timestamp": time.Now().Format(time.RFC3339)})
}

func HealthProbe(c *gin.Context) {
	var body struct {
		Timestamp string `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	ts := body.Timestamp
	if ts == "" {
		ts = time.Now().Format(time.RFC3339)
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"received": body.Timestamp,
		"parsed":   parsed.UTC().Format(time.RFC3339),
		"isValid":  err == nil,
	})
}
