package api

import (
	"net/http"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// InvalidCredentials is the only failure message /auth/token gives.
const InvalidCredentials = "Invalid credentials"

type registerInput struct {
	Name     string `json:"name" validate:"required,max=200" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=128" label:"Password"`
}

// register creates an account with the user role.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Create(ctx, "user", map[string]any{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"role":     models.RoleUser,
	})
	if res.Success {
		h.logger.Info("account registered", zap.String("email", in.Email))
	}
	writeResult(w, res)
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresIn int64     `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
}

// token exchanges an email and password for a bearer token.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	var in inputval.Credentials
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}
	email := in.Email

	ctx, cancel := h.ctx(r)
	defer cancel()

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			authutil.BurnCompare(in.Password)
			h.logger.Info("token refused: unknown email", zap.String("email", email))
			jsonutil.Unauthorized(w, InvalidCredentials)
			return
		}
		h.logger.Error("token: user lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Service temporarily unavailable")
		return
	}
	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		h.logger.Info("token refused: wrong password", zap.String("user_id", user.ID.Hex()))
		jsonutil.Unauthorized(w, InvalidCredentials)
		return
	}

	iss, err := h.tokens.IssueToken(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("token: signing failed", zap.Error(err))
		jsonutil.InternalError(w, "Could not issue token")
		return
	}
	jsonutil.OK(w, tokenResponse{
		Token:     iss.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
		ExpiresAt: iss.ExpiresAt,
		Role:      user.Role,
	})
}
