package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"localit/internal/models"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func auditUserID(c *gin.Context) *string {
	userID := c.GetInt("userID")
	if userID == 0 {
		return nil
	}
	value := strconv.Itoa(userID)
	return &value
}

// parseRoomRef reads the :kind/:id route params into a room reference.
// Responds 400 and returns false on malformed input.
func parseRoomRef(c *gin.Context) (models.RoomKind, int, bool) {
	kind := models.RoomKind(strings.ToUpper(c.Param("kind")))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room kind"})
		return "", 0, false
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return "", 0, false
	}
	return kind, id, true
}
