package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront-backend/internal/apperrors"
	"storefront-backend/internal/models"
	"storefront-backend/internal/service"
	"storefront-backend/internal/session"
)

// genericErrorMessage is the only message shown for collaborator failures.
// Domain messages never travel down this path and vice versa.
const genericErrorMessage = "Something went wrong. Please try again."

// Access is the slice of the session orchestrator used by the auth handlers.
type Access interface {
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	Register(ctx context.Context, candidate models.Customer) (service.Outcome, error)
	ChangePassword(ctx context.Context, sess session.Session, id int, currentPassword, newPassword, newPasswordConfirm string) (service.Outcome, error)
}

// Accounts is the slice of the account service used by the read handlers.
type Accounts interface {
	FindByID(ctx context.Context, id int) (*models.Customer, error)
	CheckResetEligibility(ctx context.Context, id int, email string) error
	List(ctx context.Context) ([]models.Customer, error)
}

type RegisterRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	NewPasswordConfirm string `json:"newPasswordConfirm" binding:"required"`
}

type ResetEligibilityRequest struct {
	CustomerID int    `json:"customerId" binding:"required"`
	Email      string `json:"email" binding:"required"`
}

type CustomerResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	MustReset bool   `json:"mustReset"`
}

func customerResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		MustReset: c.MustReset,
	}
}

// redirectPath maps the orchestrator's named destinations to routes.
func redirectPath(d service.Destination) string {
	switch d {
	case service.DestinationLogin:
		return "/auth/login"
	case service.DestinationChangePassword:
		return "/auth/change-password"
	default:
		return "/"
	}
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindCredentials:
		return http.StatusUnauthorized
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func respondRejection(c *gin.Context, de *apperrors.DomainError) {
	c.JSON(statusForKind(de.Kind), gin.H{"error": de.Message})
}

func Login(access Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := access.Login(ctx, req.Email, req.Password)
		if err != nil {
			log.Println("[AUTH] [ERROR] login failed:", err)
			respondWithError(c, http.StatusInternalServerError, "AUTH", genericErrorMessage)
			return
		}
		if res.Outcome.Rejected() {
			respondRejection(c, res.Outcome.Reject)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken": res.Token,
			"redirect":    redirectPath(res.Outcome.Redirect),
			"user":        customerResponse(*res.Customer),
		})
	}
}

func Register(access Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		candidate := models.Customer{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			PasswordHash:    req.Password,
			PasswordConfirm: req.PasswordConfirm,
		}

		outcome, err := access.Register(ctx, candidate)
		if err != nil {
			log.Println("[AUTH] [ERROR] register failed:", err)
			respondWithError(c, http.StatusInternalServerError, "AUTH", genericErrorMessage)
			return
		}
		if outcome.Rejected() {
			respondRejection(c, outcome.Reject)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Customer registered successfully",
			"redirect": redirectPath(outcome.Redirect),
		})
	}
}

func ChangePassword(access Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		customerID, ok := c.Get("customerId")
		if !ok {
			log.Println("[AUTH] [ERROR] customerId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var sess session.Session
		if value, ok := c.Get("session"); ok {
			sess, _ = value.(session.Session)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		outcome, err := access.ChangePassword(ctx, sess, customerID.(int), req.CurrentPassword, req.NewPassword, req.NewPasswordConfirm)
		if err != nil {
			log.Println("[AUTH] [ERROR] change password failed:", err)
			respondWithError(c, http.StatusInternalServerError, "AUTH", genericErrorMessage)
			return
		}
		if outcome.Rejected() {
			respondRejection(c, outcome.Reject)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Password changed successfully",
			"redirect": redirectPath(outcome.Redirect),
		})
	}
}

func ResetEligibility(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		var req ResetEligibilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := accounts.CheckResetEligibility(ctx, req.CustomerID, req.Email); err != nil {
			if de, ok := apperrors.AsDomain(err); ok {
				respondRejection(c, de)
				return
			}
			log.Println("[AUTH] [ERROR] reset eligibility check failed:", err)
			respondWithError(c, http.StatusInternalServerError, "AUTH", genericErrorMessage)
			return
		}

		c.JSON(http.StatusOK, gin.H{"eligible": true})
	}
}

func GetMe(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		customerID, ok := c.Get("customerId")
		if !ok {
			log.Println("[AUTH] [ERROR] customerId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		customer, err := accounts.FindByID(ctx, customerID.(int))
		if err != nil {
			log.Println("[AUTH] [ERROR] get me failed:", err)
			respondWithError(c, http.StatusInternalServerError, "AUTH", genericErrorMessage)
			return
		}
		if customer == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}

		c.JSON(http.StatusOK, customerResponse(*customer))
	}
}

func ListCustomers(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "CUSTOMERS")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		customers, err := accounts.List(ctx)
		if err != nil {
			log.Println("[CUSTOMERS] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, "CUSTOMERS", genericErrorMessage)
			return
		}

		out := make([]CustomerResponse, 0, len(customers))
		for _, customer := range customers {
			out = append(out, customerResponse(customer))
		}

		c.JSON(http.StatusOK, gin.H{
			"customers": out,
			"count":     len(out),
		})
	}
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
