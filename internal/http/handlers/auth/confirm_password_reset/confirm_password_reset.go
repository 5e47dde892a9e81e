package confirmpasswordreset

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	confirmpasswordreset "passreset/internal/core/services/confirm_password_reset"
	"passreset/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	MESSAGE               = "Password reset"
	MESSAGE_INVALID_TOKEN = "invalid or expired token"
	TOKEN_MAX_LEN         = 1024
)

type Handler struct {
	service services.Service[confirmpasswordreset.Input, confirmpasswordreset.Result]
}

func New(
	service services.Service[confirmpasswordreset.Input, confirmpasswordreset.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Result carries the session token when the automatic sign-in succeeded.
type Result struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, TOKEN_MAX_LEN)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		confirmpasswordreset.Input{
			Token:       verification.Token(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderMessage(rw, MESSAGE_INVALID_TOKEN, http.StatusUnauthorized)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	res := Result{Message: MESSAGE}
	if result.Session.IsPresent {
		res.Token = string(result.Session.Value)
	}
	response.Render(rw, res, http.StatusOK)
}
