package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/httpresp"
	"github.com/dentaldesk/clinic-scheduler/internal/middleware"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type UserHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserHandler(db *gorm.DB, log *zap.Logger) *UserHandler {
	return &UserHandler{db: db, log: log}
}

type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Active    *bool  `json:"active"`
}

func validRole(role string) bool {
	switch role {
	case models.RoleTenantAdmin, models.RoleDentist,
		models.RoleAssistant, models.RoleReceptionist:
		return true
	}
	return false
}

// List returns the tenant's staff. ?role=dentist narrows to one role,
// which is how the frontend populates the practitioner picker.
func (h *UserHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	q := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID)

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.
		Order("last_name, first_name").
		Find(&users).Error; err != nil {
		respondError(c, h.log, err, "list_users")
		return
	}
	httpresp.List(c, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !validRole(req.Role) {
		httperr.BadRequest(c, "invalid_role", "unknown role: "+req.Role)
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		respondError(c, h.log, err, "create_user")
		return
	}
	if count > 0 {
		httperr.BadRequest(c, "email_taken", "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.log, err, "create_user")
		return
	}

	user := models.User{
		TenantID:     tenantID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		respondError(c, h.log, err, "create_user")
		return
	}
	httpresp.Created(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !validRole(req.Role) {
		httperr.BadRequest(c, "invalid_role", "unknown role: "+req.Role)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error; err != nil {
		respondError(c, h.log, err, "update_user")
		return
	}

	// An admin cannot demote or deactivate itself; someone has to hold
	// the keys.
	if user.ID == middleware.UserID(c) {
		if req.Role != models.RoleTenantAdmin || (req.Active != nil && !*req.Active) {
			httperr.BadRequest(c, "self_lockout", "cannot demote or deactivate your own account")
			return
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Role = req.Role
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		respondError(c, h.log, err, "update_user")
		return
	}
	httpresp.OK(c, user)
}

// Me returns the authenticated user's own record.
func (h *UserHandler) Me(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID := middleware.UserID(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ?", tenantID, userID).
		First(&user).Error; err != nil {
		respondError(c, h.log, err, "me")
		return
	}
	c.JSON(http.StatusOK, user)
}
