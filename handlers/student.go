package handlers

import (
	"errors"
	"net/http"

	"attendance/models"

	"github.com/gin-gonic/gin"
)

type StudentRegisterRequest struct {
	ID   uint64 `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func StudentRegister(c *gin.Context) {
	r := StudentRegisterRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	reinforced, err := models.RegisterStudent(r.ID, r.Name)
	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "existing": conflict.Existing})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reinforced": reinforced})
}

type StudentRenameRequest struct {
	ID   uint64 `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func StudentRename(c *gin.Context) {
	r := StudentRenameRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	err := models.RenameStudent(r.ID, r.Name)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

type StudentDeleteRequest struct {
	ID uint64 `json:"id" binding:"required"`
}

func StudentDelete(c *gin.Context) {
	r := StudentDeleteRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	err := models.DeleteStudent(r.ID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

type StudentInfo struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	RegDate string `json:"reg_date"`
}

func StudentList(c *gin.Context) {
	students, err := models.AllStudents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := []StudentInfo{}
	for _, student := range students {
		result = append(result, StudentInfo{ID: student.ID, Name: student.Name, RegDate: student.RegDate})
	}
	c.JSON(http.StatusOK, result)
}
