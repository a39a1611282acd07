package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Placeholder feature groups. Health tracking and user management are not
// built yet; every route answers with a fixed message and touches nothing.

func (h *Handler) HealthDataStub(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Health tracking feature - coming soon"})
}

func (h *Handler) CreateHealthRecordStub(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Health record creation - coming soon"})
}

func (h *Handler) UsersStub(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "User management feature - coming soon"})
}

func (h *Handler) UserByIDStub(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %s details - coming soon", c.Param("id"))})
}
