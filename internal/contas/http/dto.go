package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/controlefin/contas/internal/contas/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode unmarshals the JSON body into dst and runs its validation tags.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// userResponse is the public user shape. Field names match the legacy
// column names the frontend binds to. The password never leaves the server.
type userResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	BirthDate string `json:"dt_nascimento,omitempty"`
	CPF       string `json:"cpf,omitempty"`
	LastLogin string `json:"ultimo_login,omitempty"`
	Kind      int    `json:"tipo_user"`
	Status    int    `json:"status"`
}

func toUserResponse(u domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		BirthDate: u.BirthDate,
		CPF:       u.CPF,
		Kind:      u.Kind,
		Status:    u.Status,
	}
	if u.LastLogin != nil {
		resp.LastLogin = u.LastLogin.UTC().Format(time.RFC3339)
	}
	return resp
}

// cardResponse mirrors the cartoes row minus the owner id.
type cardResponse struct {
	ID               int64   `json:"id"`
	BankName         string  `json:"nome_banco"`
	Label            string  `json:"nome_identificacao"`
	TotalLimit       float64 `json:"limite_total"`
	StatementBalance float64 `json:"valor_fatura"`
	Status           int     `json:"status"`
}

func toCardResponse(c domain.Card) cardResponse {
	return cardResponse{
		ID:               c.ID,
		BankName:         c.BankName,
		Label:            c.Label,
		TotalLimit:       c.TotalLimit,
		StatementBalance: c.StatementBalance,
		Status:           c.Status,
	}
}

func toCardResponses(cards []domain.Card) []cardResponse {
	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	return out
}
