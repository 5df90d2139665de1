package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avtale/avtale/internal/rest"
	"github.com/avtale/avtale/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	userService user.Service
	tokenIssuer *TokenIssuer
}

func NewHandler(userService user.Service, tokenIssuer *TokenIssuer) *Handler {
	return &Handler{
		userService: userService,
		tokenIssuer: tokenIssuer,
	}
}

type CredentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AccountDTO struct {
	Uid      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SessionDTO struct {
	Token    string `json:"token"`
	Uid      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register godoc
// @Summary Register a new account
// @Description Create a new account; the account must log in separately afterwards
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsDTO true "Credentials"
// @Success 201 {object} AccountDTO
// @Failure 400 {object} rest.ErrorResponse "Missing username or password"
// @Failure 409 {object} rest.ErrorResponse "Username already taken"
// @Router /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Registering user")

	var credentials CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	created, err := h.userService.Register(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		if errors.Is(err, user.ErrMissingCredentials) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Username and password are required",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		if errors.Is(err, user.ErrUsernameTaken) {
			w.WriteHeader(http.StatusConflict)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Username is already taken",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Debugf("Registered user: %s", created.Username)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(AccountDTO{
		Uid:      created.Uid,
		Username: created.Username,
		Role:     string(created.Role),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Login godoc
// @Summary Log in
// @Description Exchange username and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsDTO true "Credentials"
// @Success 200 {object} SessionDTO
// @Failure 401 {object} rest.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Logging in user")

	var credentials CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	authenticated, err := h.userService.Authenticate(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Invalid username or password",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := h.tokenIssuer.Issue(authenticated)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SessionDTO{
		Token:    token,
		Uid:      authenticated.Uid,
		Username: authenticated.Username,
		Role:     string(authenticated.Role),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
