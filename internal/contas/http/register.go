package http

import (
	"fmt"
	"net/http"

	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/pkg/httpx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

type sendCodeRequest struct {
	Name      string `json:"nome" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"senha" validate:"required"`
	BirthDate string `json:"dt_nascimento"`
	CPF       string `json:"cpf"`
}

// HandleSendCode starts a registration by emailing a verification code.
//
//	@Summary		Request a registration verification code
//	@Description	Validates the candidate account, stores it as pending and emails a 6-digit code. No account is created yet; a repeat request replaces the previous pending registration for the same email.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		sendCodeRequest	true	"Candidate account"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string	"Invalid fields or weak password"
//	@Failure		409		{object}	map[string]string	"Email or CPF already registered"
//	@Failure		500		{object}	map[string]string	"Code delivery failed"
//	@Router			/users/send-code [post].
func (h *RegisterHandler) HandleSendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	in := service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: req.BirthDate,
		CPF:       req.CPF,
	}
	if err := h.RegistrationService.RequestCode(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK,
		fmt.Sprintf("Código de verificação enviado para %s. Verifique sua caixa de entrada.", req.Email))
}

type verifyRegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// HandleVerifyRegister finishes a registration by consuming the code.
//
//	@Summary		Verify the code and create the account
//	@Description	Consumes the pending registration on a correct code and commits the account. A wrong code can be retried until the code expires.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyRegisterRequest	true	"Email and received code"
//	@Success		201		{object}	map[string]any
//	@Failure		400		{object}	map[string]string	"No pending registration or code expired"
//	@Failure		401		{object}	map[string]string	"Wrong code"
//	@Failure		409		{object}	map[string]string	"Account was registered meanwhile"
//	@Router			/users/verify-register [post].
func (h *RegisterHandler) HandleVerifyRegister(w http.ResponseWriter, r *http.Request) {
	var req verifyRegisterRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	user, err := h.RegistrationService.VerifyRegister(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Usuário registrado com sucesso!",
		"userId":  user.ID,
		"user": map[string]string{
			"nome":  user.Name,
			"email": user.Email,
		},
	})
}
