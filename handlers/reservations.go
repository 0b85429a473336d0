package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonbook/salonbook/internal/screens"
	"github.com/salonbook/salonbook/internal/uistate"
)

type RejectRequest struct {
	Reason string `json:"reason"`
}

// ReservationHandler serves the signed-in screens. Routes are expected to
// sit behind middleware.RequireSession.
type ReservationHandler struct {
	deps screens.Deps
}

func NewReservationHandler(d screens.Deps) *ReservationHandler {
	return &ReservationHandler{deps: d}
}

func (h *ReservationHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/home", h.Home)
	rg.GET("/reservations", h.List)
	rg.POST("/reservations", h.Create)
	admin := rg.Group("/admin/reservations")
	admin.GET("", h.AdminList)
	admin.POST("/:id/accept", h.Accept)
	admin.POST("/:id/reject", h.Reject)
}

func (h *ReservationHandler) Home(c *gin.Context) {
	s := screens.NewHomeScreen(c.Request.Context(), h.deps)
	defer s.Close()
	v := screens.Last(s.Load())
	body := stateBody(v.State, "")
	body["greeting"] = v.Greeting
	body["isAdmin"] = v.IsAdmin
	body["menu"] = v.Menu
	if v.User != nil {
		body["user"] = gin.H{"id": v.User.ID, "email": v.User.Email, "firstName": v.User.FirstName(), "lastName": v.User.LastName()}
	}
	c.JSON(statusOf(v.State), body)
}

func (h *ReservationHandler) List(c *gin.Context) {
	s := screens.NewReservationsScreen(c.Request.Context(), h.deps)
	defer s.Close()
	writeList(c, screens.Last(s.Load()))
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var form screens.ReservationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := screens.NewMakeReservationScreen(c.Request.Context(), h.deps)
	defer s.Close()
	st := screens.Last(s.Submit(form))
	if _, ok := st.(uistate.Success); ok {
		c.JSON(http.StatusCreated, stateBody(st, screens.RouteReservations))
		return
	}
	writeState(c, st, "")
}

func (h *ReservationHandler) AdminList(c *gin.Context) {
	s := screens.NewAdminPanelScreen(c.Request.Context(), h.deps)
	defer s.Close()
	writeList(c, screens.Last(s.Load()))
}

func (h *ReservationHandler) Accept(c *gin.Context) {
	s := screens.NewAdminPanelScreen(c.Request.Context(), h.deps)
	defer s.Close()
	writeState(c, screens.Last(s.Accept(c.Param("id"))), "")
}

func (h *ReservationHandler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := screens.NewAdminPanelScreen(c.Request.Context(), h.deps)
	defer s.Close()
	writeState(c, screens.Last(s.Reject(c.Param("id"), req.Reason)), "")
}

func writeList(c *gin.Context, v screens.ListView) {
	body := stateBody(v.State, "")
	rows := v.Rows
	if rows == nil {
		rows = []screens.ReservationRow{}
	}
	body["reservations"] = rows
	if v.Empty != "" {
		body["empty"] = v.Empty
	}
	c.JSON(statusOf(v.State), body)
}
