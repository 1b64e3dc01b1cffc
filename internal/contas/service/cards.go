package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/store"
)

// CardInput carries the writable card fields. The statement balance is not
// client-writable; it starts at zero and belongs to the expense flow.
type CardInput struct {
	BankName   string
	Label      string
	TotalLimit float64
}

// CardService manages a user's credit cards. Deletion is always a soft
// delete: the row survives with inactive status so past statements keep
// their reference.
type CardService struct {
	store  store.Store
	logger *slog.Logger
}

func NewCardService(st store.Store, logger *slog.Logger) *CardService {
	return &CardService{store: st, logger: logger}
}

func (in *CardInput) normalize() error {
	in.BankName = strings.TrimSpace(in.BankName)
	in.Label = strings.TrimSpace(in.Label)
	if in.BankName == "" || in.Label == "" {
		return ErrInvalidInput
	}
	if in.TotalLimit < 0 {
		return ErrInvalidInput
	}
	return nil
}

// Create registers a card for the user. The label must be unused among the
// user's cards; the schema additionally enforces it across all users, so a
// clash with another user's label also surfaces as a duplicate.
func (s *CardService) Create(ctx context.Context, userID int64, in CardInput) (domain.Card, error) {
	if err := in.normalize(); err != nil {
		return domain.Card{}, err
	}

	if _, err := s.store.Cards().FindByOwnerAndLabel(ctx, userID, in.Label); err == nil {
		return domain.Card{}, ErrLabelTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Card{}, fmt.Errorf("check label: %w", err)
	}

	card := domain.Card{
		UserID:     userID,
		BankName:   in.BankName,
		Label:      in.Label,
		TotalLimit: in.TotalLimit,
		Status:     domain.StatusActive,
	}

	id, err := s.store.Cards().CreateCard(ctx, card)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Card{}, ErrLabelTaken
		}
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}
	card.ID = id

	s.logger.InfoContext(ctx, "card created",
		slog.Int64("user_id", userID), slog.Int64("card_id", id))
	return card, nil
}

// List returns the user's active cards. Soft deleted cards never appear.
func (s *CardService) List(ctx context.Context, userID int64) ([]domain.Card, error) {
	cards, err := s.store.Cards().ListActiveCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// Get fetches one card. A card owned by another user is reported as missing.
func (s *CardService) Get(ctx context.Context, userID, cardID int64) (domain.Card, error) {
	card, err := s.store.Cards().GetCardByOwner(ctx, cardID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Card{}, ErrCardNotFound
		}
		return domain.Card{}, fmt.Errorf("load card: %w", err)
	}
	return card, nil
}

// Update rewrites the card's bank, label and limits, scoped to the owner.
func (s *CardService) Update(ctx context.Context, userID, cardID int64, in CardInput) (domain.Card, error) {
	if err := in.normalize(); err != nil {
		return domain.Card{}, err
	}

	if existing, err := s.store.Cards().FindByOwnerAndLabel(ctx, userID, in.Label); err == nil {
		if existing.ID != cardID {
			return domain.Card{}, ErrLabelTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Card{}, fmt.Errorf("check label: %w", err)
	}

	card := domain.Card{
		ID:         cardID,
		UserID:     userID,
		BankName:   in.BankName,
		Label:      in.Label,
		TotalLimit: in.TotalLimit,
	}

	if err := s.store.Cards().UpdateCard(ctx, card); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Card{}, ErrCardNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Card{}, ErrLabelTaken
		}
		return domain.Card{}, fmt.Errorf("update card: %w", err)
	}

	return s.Get(ctx, userID, cardID)
}

// Delete soft deletes the card. Deleting an already deleted card reports it
// as missing.
func (s *CardService) Delete(ctx context.Context, userID, cardID int64) error {
	if err := s.store.Cards().SoftDeleteCard(ctx, cardID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("delete card: %w", err)
	}

	s.logger.InfoContext(ctx, "card deleted",
		slog.Int64("user_id", userID), slog.Int64("card_id", cardID))
	return nil
}
