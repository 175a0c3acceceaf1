package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/visionise-api/internal/httputil"
	"github.com/redmonkez12/visionise-api/internal/logging"
	"github.com/redmonkez12/visionise-api/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Profession string `json:"profession"`
	BirthDate  string `json:"birthDate"`
}

// SignupResponse represents the signup response
type SignupResponse struct {
	OK     bool   `json:"ok"`
	UserID string `json:"userId"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninUser is the profile returned alongside the token
type SigninUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// SigninResponse represents the signin response
type SigninResponse struct {
	Token string     `json:"token"`
	User  SigninUser `json:"user"`
}

// Signup handles user registration
// @Summary      Register a new user
// @Description  Create an account with email, password and optional profile fields.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup form"
// @Success      200 {object} SignupResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields or user already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.Signup(r.Context(), SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Profession: req.Profession,
		BirthDate:  req.BirthDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired):
			httputil.RespondErrorWithCode(w, "email and password required", httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			httputil.RespondErrorWithCode(w, "email and password required", httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("signup failed: email already exists")
			httputil.RespondErrorWithCode(w, "user already exists", httputil.CodeUserAlreadyExists, http.StatusBadRequest)
		default:
			logger.Error("signup failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to sign up", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user signed up", "user_id", created.ID)

	httputil.RespondJSON(w, SignupResponse{OK: true, UserID: created.ID}, http.StatusOK)
}

// Signin handles user login
// @Summary      Sign in
// @Description  Exchange email and password for a bearer token. Bad credentials return 400, not 401.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SigninRequest true "Credentials"
// @Success      200 {object} SigninResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/signin [post]
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SigninRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid signin request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	token, u, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("signin failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "Invalid credentials", httputil.CodeInvalidCredentials, http.StatusBadRequest)
			return
		}
		logger.Error("signin failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to sign in", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user signed in", "user_id", u.ID)

	httputil.RespondJSON(w, SigninResponse{
		Token: token,
		User: SigninUser{
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
	}, http.StatusOK)
}

// Me is a placeholder session probe; it is not behind RequireAuth.
// @Summary      Session probe
// @Tags         auth
// @Produce      json
// @Success      200 {object} httputil.OKResponse
// @Router       /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	httputil.RespondOK(w)
}
