package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/pkg/httpx"
)

// ManagementHandler serves the authenticated profile mutations. Every route
// runs behind SessionMiddleware, so the acting user is always in context.
type ManagementHandler struct {
	ProfileService     *service.ProfileService
	EmailChangeService *service.EmailChangeService
}

type updateNameRequest struct {
	NewName string `json:"newName" validate:"required"`
}

// HandleUpdateName renames the account.
//
//	@Summary		Update display name
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Param			request	body		updateNameRequest	true	"New name, plus userId when in payload identity mode"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string	"Name shorter than 2 characters"
//	@Failure		401		{object}	map[string]string	"No user id in request"
//	@Failure		404		{object}	map[string]string	"Unknown user"
//	@Router			/users/management/name [put].
func (h *ManagementHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	var req updateNameRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.ProfileService.UpdateName(r.Context(), user, req.NewName); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Nome atualizado com sucesso!")
}

type validatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
}

// HandleValidatePassword checks the current password without changing it.
//
//	@Summary		Validate the current password
//	@Description	Confirmation probe the frontend runs before opening the password change form. Changes nothing.
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Param			request	body		validatePasswordRequest	true	"Current password"
//	@Success		200		{object}	map[string]string
//	@Failure		401		{object}	map[string]string	"Wrong password"
//	@Router			/users/management/password/validate [post].
func (h *ManagementHandler) HandleValidatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	var req validatePasswordRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.ProfileService.ValidatePassword(r.Context(), user, req.CurrentPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteMessage(w, http.StatusUnauthorized, "Senha atual incorreta.")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Senha validada com sucesso.")
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// HandleUpdatePassword replaces the password.
//
//	@Summary		Change password
//	@Description	Re-checks the current password, then stores the new one. The new password must meet policy and differ from the current one.
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Param			request	body		updatePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string	"Weak or unchanged password"
//	@Failure		401		{object}	map[string]string	"Wrong current password"
//	@Router			/users/management/password [put].
func (h *ManagementHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	var req updatePasswordRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.ProfileService.UpdatePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteMessage(w, http.StatusUnauthorized, "Senha atual incorreta.")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Senha alterada com sucesso!")
}

type requestEmailChangeRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

// HandleRequestEmailChange starts the two-step email swap.
//
//	@Summary		Request an email change code
//	@Description	Stores the candidate address as pending and emails a 6-digit code to it. A repeat request replaces the previous candidate.
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Param			request	body		requestEmailChangeRequest	true	"Candidate address"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string	"Invalid or unchanged address"
//	@Failure		409		{object}	map[string]string	"Address owned by another account"
//	@Failure		500		{object}	map[string]string	"Code delivery failed"
//	@Router			/users/management/email/request-code [post].
func (h *ManagementHandler) HandleRequestEmailChange(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	var req requestEmailChangeRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.EmailChangeService.RequestCode(r.Context(), user, req.NewEmail); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK,
		fmt.Sprintf("Código enviado para %s. Verifique sua caixa de entrada para continuar.", req.NewEmail))
}

type verifyEmailChangeRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
	Code     string `json:"code" validate:"required"`
}

// HandleVerifyEmailChange finishes the email swap.
//
//	@Summary		Verify the code and change the email
//	@Description	Consumes the pending change on a correct code. The submitted address must be the one the code was sent to.
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyEmailChangeRequest	true	"Candidate address and received code"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string	"No pending change, mismatched address or expired code"
//	@Failure		401		{object}	map[string]string	"Wrong code"
//	@Failure		409		{object}	map[string]string	"Address was registered meanwhile"
//	@Router			/users/management/email/verify-change [put].
func (h *ManagementHandler) HandleVerifyEmailChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	var req verifyEmailChangeRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.EmailChangeService.Verify(r.Context(), userID, req.NewEmail, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "E-mail alterado e verificado com sucesso!",
		"newEmail": req.NewEmail,
	})
}
