package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonbook/salonbook/internal/screens"
)

// LoginRequest is the body of POST /auth/login. Validation happens in the
// auth controller so an empty email gets the same message as a bad one.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	deps screens.Deps
}

func NewAuthHandler(d screens.Deps) *AuthHandler {
	return &AuthHandler{deps: d}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.GET("/status", h.Status)
	a.POST("/signup", h.SignUp)
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
}

// Status re-validates the stored session, as the login screen does on open.
func (h *AuthHandler) Status(c *gin.Context) {
	s := screens.NewMainScreen(c.Request.Context(), h.deps)
	defer s.Close()
	out := screens.Last(s.Mount())
	writeState(c, out.State, out.Navigate)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := screens.NewRegisterScreen(c.Request.Context(), h.deps)
	defer s.Close()
	out := screens.Last(s.SignUp(req.Email, req.Password, req.FirstName, req.LastName))
	writeState(c, out.State, out.Navigate)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := screens.NewMainScreen(c.Request.Context(), h.deps)
	defer s.Close()
	out := screens.Last(s.Login(req.Email, req.Password))
	writeState(c, out.State, out.Navigate)
}

// Logout always points the client back to the login screen.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := screens.NewHomeScreen(c.Request.Context(), h.deps)
	defer s.Close()
	out := screens.Last(s.Logout())
	writeState(c, out.State, out.Navigate)
}
