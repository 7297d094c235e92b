package handler

import (
	"log"

	"github.com/anagroupsupplies/shop/dto"
	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/usecase"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
)

type UserHandler struct {
	users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if err.Error() == "username already exists" {
			utils.Conflict(c, "Username already exists")
			return
		}
		if model.IsValidation(err) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("Error creating user: %v", err)
		utils.InternalError(c, "Failed to create account")
		return
	}

	utils.Created(c, gin.H{"user": dto.ToUserResponse(user)})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ua := useragent.Parse(c.Request.UserAgent())
	device := ua.Name + " on " + ua.OS

	user, token, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password, device)
	if err != nil {
		if err.Error() == "invalid credentials" {
			utils.Unauthorized(c, "Invalid username or password")
			return
		}
		log.Printf("Error authenticating %s: %v", req.Username, err)
		utils.InternalError(c, "Login failed")
		return
	}

	utils.Success(c, gin.H{
		"token": token,
		"user":  dto.ToUserResponse(user),
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	user, err := h.users.UserRepo.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch profile")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, gin.H{"user": dto.ToUserResponse(user)})
}

// Admin operations below.

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.UserRepo.ListUsers(c.Request.Context(), 200)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		utils.InternalError(c, "Failed to list users")
		return
	}

	utils.Success(c, gin.H{"users": dto.ToUserResponses(users)})
}

func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		if model.IsValidation(err) {
			utils.BadRequest(c, err.Error())
			return
		}
		if err.Error() == "user not found" {
			utils.NotFound(c, "User not found")
			return
		}
		log.Printf("Error updating role for %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to update role")
		return
	}

	utils.Success(c, gin.H{"updated": c.Param("id"), "role": req.Role})
}
