package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/projecthub/backend/config"
	"github.com/projecthub/backend/models"
)

type ResourceInput struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	FileURL      string `json:"file_url"`
	ResourceType string `json:"resource_type" binding:"required"`
}

// GET /resources — active resources for any signed-in user, newest first.
func GetResources(c *gin.Context) {
	var resources []models.Resource
	if err := config.DB.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// GET /admin/resources
func GetAllResources(c *gin.Context) {
	var resources []models.Resource
	if err := config.DB.Order("created_at DESC").Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// POST /admin/resources
func CreateResource(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource := models.Resource{
		Title:        input.Title,
		Description:  input.Description,
		FileURL:      input.FileURL,
		ResourceType: input.ResourceType,
		IsActive:     true,
		CreatedBy:    userID,
	}
	if err := config.DB.Create(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Resource created successfully!",
		"resource": resource,
	})
}

type ResourceUpdateInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	FileURL      *string `json:"file_url"`
	ResourceType *string `json:"resource_type"`
	IsActive     *bool   `json:"is_active"`
}

// PUT /admin/resources/:id
func UpdateResource(c *gin.Context) {
	var resource models.Resource
	if err := config.DB.First(&resource, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	var input ResourceUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		resource.Title = *input.Title
	}
	if input.Description != nil {
		resource.Description = *input.Description
	}
	if input.FileURL != nil {
		resource.FileURL = *input.FileURL
	}
	if input.ResourceType != nil {
		resource.ResourceType = *input.ResourceType
	}
	if input.IsActive != nil {
		resource.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resource"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Resource updated successfully!",
		"resource": resource,
	})
}

// DELETE /admin/resources/:id
func DeleteResource(c *gin.Context) {
	res := config.DB.Delete(&models.Resource{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully!"})
}
