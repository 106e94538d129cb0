package monitor

import (
	"bytes"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// LogsRouteConfig configures the operator log viewer.
type LogsRouteConfig struct {
	Token   string // MONITOR_TOKEN; the route is not mounted when empty
	LogPath string
}

const defaultLogLines = 500

// RegisterLogsRoute serves the tail of the service log at /logs?token=...&lines=N.
func RegisterLogsRoute(router *gin.Engine, cfg LogsRouteConfig) bool {
	if cfg.Token == "" {
		return false
	}
	router.GET("/logs", func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(cfg.Token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		lines := defaultLogLines
		if raw := c.Query("lines"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "lines must be a positive number"})
				return
			}
			lines = n
		}

		logData, err := os.ReadFile(cfg.LogPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", tailLines(logData, lines))
	})
	return true
}

// tailLines returns the last n lines of data.
func tailLines(data []byte, n int) []byte {
	data = bytes.TrimRight(data, "\n")
	end := len(data)
	for i := end - 1; i >= 0; i-- {
		if data[i] == '\n' {
			n--
			if n == 0 {
				return append(data[i+1:end:end], '\n')
			}
		}
	}
	if end == 0 {
		return data
	}
	return append(data[:end:end], '\n')
}
