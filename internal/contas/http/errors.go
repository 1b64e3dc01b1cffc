package http

import (
	"errors"
	"net/http"

	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/pkg/httpx"
	"github.com/controlefin/contas/pkg/slogx"
)

// apiError pairs an HTTP status with the user-facing message the frontend
// shows verbatim, hence the Portuguese.
type apiError struct {
	status  int
	message string
}

var serviceErrors = map[error]apiError{
	service.ErrInvalidInput:       {http.StatusBadRequest, "Dados da requisição inválidos ou incompletos."},
	service.ErrWeakPassword:       {http.StatusBadRequest, "A senha deve ter no mínimo 6 caracteres, com letra maiúscula, minúscula e número."},
	service.ErrSamePassword:       {http.StatusBadRequest, "A nova senha deve ser diferente da atual."},
	service.ErrSameEmail:          {http.StatusBadRequest, "O novo email não pode ser igual ao email atual."},
	service.ErrEmailTaken:         {http.StatusConflict, "Este email já está cadastrado."},
	service.ErrCPFTaken:           {http.StatusConflict, "Este CPF já está cadastrado."},
	service.ErrLabelTaken:         {http.StatusConflict, "Você já tem um cartão com este nome de identificação."},
	service.ErrInvalidCredentials: {http.StatusUnauthorized, "Credenciais inválidas."},
	service.ErrUserInactive:       {http.StatusForbidden, "Usuário inativo."},
	service.ErrUserNotFound:       {http.StatusNotFound, "Usuário não encontrado."},
	service.ErrCardNotFound:       {http.StatusNotFound, "Cartão não encontrado ou você não tem permissão."},
	service.ErrNoPending:          {http.StatusBadRequest, "Nenhuma verificação pendente. Solicite um novo código."},
	service.ErrCodeExpired:        {http.StatusBadRequest, "O código de verificação expirou."},
	service.ErrBadCode:            {http.StatusUnauthorized, "Código de verificação incorreto."},
	service.ErrPendingMismatch:    {http.StatusBadRequest, "Processo de alteração de e-mail inválido. Tente novamente."},
	service.ErrDeliveryFailed:     {http.StatusInternalServerError, "Falha ao enviar o código de verificação."},
}

// writeServiceError translates a service error into its response. Unmapped
// errors are logged and collapsed into an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for sentinel, api := range serviceErrors {
		if errors.Is(err, sentinel) {
			httpx.WriteMessage(w, api.status, api.message)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
	httpx.WriteMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
}

func writeBadRequest(w http.ResponseWriter) {
	httpx.WriteMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
}
