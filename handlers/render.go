package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonbook/salonbook/internal/screens"
	"github.com/salonbook/salonbook/internal/uistate"
)

// stateBody renders a terminal state the way clients of the bridge read it.
func stateBody(st uistate.State, nav screens.Route) gin.H {
	body := gin.H{"state": uistate.Kind(st), "message": uistate.Message(st)}
	if s, ok := st.(uistate.Success); ok {
		body["isRegistration"] = s.IsRegistration
	}
	if nav != "" {
		body["navigate"] = nav
	}
	return body
}

func statusOf(st uistate.State) int {
	e, ok := st.(uistate.Error)
	switch {
	case !ok:
		return http.StatusOK
	case e.Message == screens.MsgAdminOnly:
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}

func writeState(c *gin.Context, st uistate.State, nav screens.Route) {
	c.JSON(statusOf(st), stateBody(st, nav))
}
