package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/config"
	"github.com/iliyamo/cafeteria-booking/internal/utils"
)

// StaffAuthHandler issues access tokens to cafeteria staff.  There is a
// single staff account configured through STAFF_USER and
// STAFF_PASSWORD_HASH.
type StaffAuthHandler struct {
	Cfg config.Config
}

// NewStaffAuthHandler constructs a StaffAuthHandler.
func NewStaffAuthHandler(cfg config.Config) *StaffAuthHandler {
	return &StaffAuthHandler{Cfg: cfg}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	User   string            `json:"user"`
	Role   string            `json:"role"`
	Access utils.AccessToken `json:"access"`
}

// Login checks the staff credentials and returns a STAFF access token.
func (h *StaffAuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	user := strings.TrimSpace(req.Username)
	if user == "" || req.Password == "" {
		return badRequest(c, "username/password required")
	}
	// both checks always run so a wrong user name costs the same as a wrong password
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(h.Cfg.StaffUser)) == 1
	passOK := utils.VerifyPassword(h.Cfg.StaffPasswordHash, req.Password)
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user, utils.RoleStaff, h.Cfg.AccessTTLMin)
	if err != nil {
		c.Logger().Errorf("staff login: sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	return c.JSON(http.StatusOK, loginResp{User: user, Role: utils.RoleStaff, Access: tok})
}
