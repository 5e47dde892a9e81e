package requestpasswordreset

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	ratelimiter "passreset/internal/core/domain/rate_limiter"
	"passreset/internal/core/services"
	requestpasswordreset "passreset/internal/core/services/request_password_reset"
	"passreset/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const MESSAGE = "If the email exists, you'll receive instructions."

type Handler struct {
	service    services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	isTestMode bool
}

func New(
	service services.Service[requestpasswordreset.Input, requestpasswordreset.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

// Result never reveals whether the email belongs to an account. Token is
// filled only in test mode.
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
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
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
		requestpasswordreset.Input{Email: c.NewEmail(input.Email)},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	res := Result{Message: MESSAGE}
	if h.isTestMode && result.Token.IsPresent {
		res.Token = string(result.Token.Value)
	}
	response.Render(rw, res, http.StatusOK)
}
