package handle

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Melonns/PlantifyBE/api/internal/store"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

func (h *Handle) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Data registrasi tidak valid", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Gagal memproses password", err)
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req.Name, strings.ToLower(req.Email), string(hash))
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			fail(c, http.StatusConflict, "Email sudah terdaftar", nil)
			return
		}
		fail(c, http.StatusInternalServerError, "Gagal membuat user", err)
		return
	}
	ok(c, http.StatusCreated, "Registrasi berhasil", user)
}

// LoginUser checks credentials and issues a token. It requires a token
// manager; without one the router does not register the route, and a direct
// call answers 503 instead of panicking on Issue.
func (h *Handle) LoginUser(c *gin.Context) {
	if h.Tokens == nil {
		fail(c, http.StatusServiceUnavailable, "Login tidak tersedia", nil)
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Data login tidak valid", err)
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, http.StatusUnauthorized, "Email atau password salah", nil)
			return
		}
		fail(c, http.StatusInternalServerError, "Gagal memproses login", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Email atau password salah", nil)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Gagal membuat token", err)
		return
	}
	ok(c, http.StatusOK, "Login berhasil", loginResponse{Token: token, User: user})
}

func (h *Handle) GetAllUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Gagal mengambil data user", err)
		return
	}
	ok(c, http.StatusOK, "", users)
}

func (h *Handle) GetUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "ID tidak valid", nil)
		return
	}
	user, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, http.StatusNotFound, "User tidak ditemukan", nil)
			return
		}
		fail(c, http.StatusInternalServerError, "Gagal mengambil data user", err)
		return
	}
	ok(c, http.StatusOK, "", user)
}
