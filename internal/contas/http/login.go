package http

import (
	"net/http"

	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/pkg/httpx"
	"github.com/controlefin/contas/pkg/slogx"
)

type LoginHandler struct {
	LoginService *service.LoginService
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// HandleLogin authenticates a user.
//
//	@Summary		Log in
//	@Description	Checks email and password, stamps the last login time and returns the user snapshot. Unknown email and wrong password fail identically.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	map[string]any
//	@Failure		401		{object}	map[string]string	"Invalid credentials"
//	@Failure		403		{object}	map[string]string	"Inactive account"
//	@Router			/users/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	user, token, err := h.LoginService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := map[string]any{
		"message": "Login realizado com sucesso!",
		"user":    toUserResponse(user),
	}
	if token != "" {
		resp["token"] = token
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleList returns every account. Development helper.
//
//	@Summary		List users
//	@Description	Returns every registered account without passwords. Intended for development and testing only.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}	userResponse
//	@Router			/users [get].
func (h *LoginHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.LoginService.ListUsers(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list users", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Erro interno do servidor ao buscar usuários.")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
