package http

import (
	"net/http"
	"strconv"

	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/pkg/httpx"
)

type CardsHandler struct {
	CardService *service.CardService
}

type cardRequest struct {
	BankName   string   `json:"nome_banco" validate:"required"`
	Label      string   `json:"nome_identificacao" validate:"required"`
	TotalLimit *float64 `json:"limite_total" validate:"required"`
}

func (req *cardRequest) toInput() service.CardInput {
	return service.CardInput{
		BankName:   req.BankName,
		Label:      req.Label,
		TotalLimit: *req.TotalLimit,
	}
}

func cardIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("cardId"), 10, 64)
	return id, err == nil && id > 0
}

// HandleCreate registers a card.
//
//	@Summary		Create a card
//	@Tags			Cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body		cardRequest	true	"Card fields, plus userId when in payload identity mode"
//	@Success		201		{object}	map[string]any
//	@Failure		400		{object}	map[string]string	"Missing fields or negative limit"
//	@Failure		409		{object}	map[string]string	"Duplicate label"
//	@Router			/cards [post].
func (h *CardsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	var req cardRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest,
			"Todos os campos do cartão (banco, identificação, limite) são obrigatórios.")
		return
	}

	card, err := h.CardService.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Cartão cadastrado com sucesso!",
		"cardId":  card.ID,
		"nome":    card.Label,
	})
}

// HandleList returns the user's active cards.
//
//	@Summary		List cards
//	@Description	Returns the acting user's active cards. Soft deleted cards never appear.
//	@Tags			Cards
//	@Produce		json
//	@Param			userId	query	int	false	"Acting user id (payload identity mode)"
//	@Success		200		{array}	cardResponse
//	@Router			/cards [get].
func (h *CardsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	cards, err := h.CardService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCardResponses(cards))
}

// HandleGet returns a single card.
//
//	@Summary		Get a card
//	@Tags			Cards
//	@Produce		json
//	@Param			cardId	path		int	true	"Card id"
//	@Success		200		{object}	cardResponse
//	@Failure		404		{object}	map[string]string	"Unknown card or not the owner"
//	@Router			/cards/{cardId} [get].
func (h *CardsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	cardID, ok := cardIDFromPath(r)
	if !ok {
		writeBadRequest(w)
		return
	}

	card, err := h.CardService.Get(r.Context(), userID, cardID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCardResponse(card))
}

// HandleUpdate rewrites a card's fields.
//
//	@Summary		Update a card
//	@Tags			Cards
//	@Accept			json
//	@Produce		json
//	@Param			cardId	path		int			true	"Card id"
//	@Param			request	body		cardRequest	true	"New card fields"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	map[string]string	"Unknown card or not the owner"
//	@Failure		409		{object}	map[string]string	"Duplicate label"
//	@Router			/cards/{cardId} [put].
func (h *CardsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	cardID, ok := cardIDFromPath(r)
	if !ok {
		writeBadRequest(w)
		return
	}

	var req cardRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Todos os campos do cartão são obrigatórios.")
		return
	}

	if _, err := h.CardService.Update(r.Context(), userID, cardID, req.toInput()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Cartão atualizado com sucesso!")
}

// HandleDelete soft deletes a card.
//
//	@Summary		Delete a card
//	@Description	Marks the card inactive. The row is kept so past statements stay consistent.
//	@Tags			Cards
//	@Produce		json
//	@Param			cardId	path		int	true	"Card id"
//	@Param			userId	query		int	false	"Acting user id (payload identity mode)"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	map[string]string	"Unknown card or not the owner"
//	@Router			/cards/{cardId} [delete].
func (h *CardsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
		return
	}

	cardID, ok := cardIDFromPath(r)
	if !ok {
		writeBadRequest(w)
		return
	}

	if err := h.CardService.Delete(r.Context(), userID, cardID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Cartão excluído com sucesso!")
}
