// Package handler contains the HTTP handlers for the membership API.
package handler

import (
	"encoding/json"
	"io"
	"log/slog"

	"membership/internal/delivery/api/response"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/errors"
	"membership/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MemberHandlerParams holds dependencies for MemberHandler, injected by Fx.
type MemberHandlerParams struct {
	fx.In

	RegistrationUC   usecase.RegistrationUsecase
	AuthenticationUC usecase.AuthenticationUsecase
	DirectoryUC      usecase.DirectoryUsecase
	Logger           *slog.Logger
}

// MemberHandler serves sign-up, login and the admin listing.
type MemberHandler struct {
	registrationUC   usecase.RegistrationUsecase
	authenticationUC usecase.AuthenticationUsecase
	directoryUC      usecase.DirectoryUsecase
	logger           *slog.Logger
}

// NewMemberHandler is the constructor for MemberHandler
func NewMemberHandler(params MemberHandlerParams) *MemberHandler {
	return &MemberHandler{
		registrationUC:   params.RegistrationUC,
		authenticationUC: params.AuthenticationUC,
		directoryUC:      params.DirectoryUC,
		logger:           params.Logger,
	}
}

// Register handles member sign-up. The body is decoded loosely so that the
// validator can report wrong JSON types per field.
func (h *MemberHandler) Register(c echo.Context) error {
	payload, err := decodeObject(c.Request().Body)
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.registrationUC.Register(c.Request().Context(), payload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, output.User)
}

// Login handles member login. A body that does not bind is treated as empty
// credentials and therefore fails as invalid credentials.
func (h *MemberHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		input = usecase.LoginInput{}
	}

	output, err := h.authenticationUC.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, output.User)
}

// ListRegistrations returns every member, newest first.
func (h *MemberHandler) ListRegistrations(c echo.Context) error {
	views, err := h.directoryUC.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, views)
}

// decodeObject reads a JSON object body. An empty body is an empty object.
func decodeObject(body io.Reader) (map[string]any, error) {
	var raw any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}

		return nil, bodyViolation("Invalid JSON")
	}

	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, bodyViolation("Expected object")
	}
}

func bodyViolation(message string) error {
	return domainerrors.NewValidationError([]domainerrors.FieldViolation{{
		Field:   "body",
		Rule:    "json",
		Message: message,
	}})
}
