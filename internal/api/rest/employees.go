package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ppe-inspector/internal/domain/entity"
)

func (h *Handler) handleRegisterUser(c *gin.Context) {
	data, _, err := readUpload(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	emp, err := h.employees.Register(c.Request.Context(), c.PostForm("name"), c.PostForm("surname"), data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    emp,
	})
}

func (h *Handler) handleLoginUser(c *gin.Context) {
	data, _, err := readUpload(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	emp, err := h.employees.Login(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    emp,
	})
}

func (h *Handler) handleUsers(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if employees == nil {
		employees = []entity.Employee{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   employees,
		"count":   len(employees),
	})
}

func (h *Handler) handleUserPhoto(c *gin.Context) {
	path, err := h.employees.PhotoPath(c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}
