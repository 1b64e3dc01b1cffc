package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func validCardInput() CardInput {
	return CardInput{
		BankName:   "Nubank",
		Label:      "Roxinho",
		TotalLimit: 2500,
	}
}

func TestCardCreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.register(t, validRegisterInput())

	card, err := f.cards.Create(ctx, id, validCardInput())
	require.NoError(t, err)
	require.NotZero(t, card.ID)
	require.Equal(t, "Roxinho", card.Label)
	require.Zero(t, card.StatementBalance)

	got, err := f.cards.Get(ctx, id, card.ID)
	require.NoError(t, err)
	require.Equal(t, card.ID, got.ID)
	require.Equal(t, 2500.0, got.TotalLimit)
}

func TestCardCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.register(t, validRegisterInput())

	cases := map[string]func(*CardInput){
		"empty bank":     func(in *CardInput) { in.BankName = "  " },
		"empty label":    func(in *CardInput) { in.Label = "" },
		"negative limit": func(in *CardInput) { in.TotalLimit = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validCardInput()
			mutate(&in)
			_, err := f.cards.Create(ctx, id, in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCardDuplicateLabel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.register(t, validRegisterInput())

	_, err := f.cards.Create(ctx, id, validCardInput())
	require.NoError(t, err)

	in := validCardInput()
	in.BankName = "Itau"
	_, err = f.cards.Create(ctx, id, in)
	require.ErrorIs(t, err, ErrLabelTaken)
}

func TestCardListExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.register(t, validRegisterInput())

	first, err := f.cards.Create(ctx, id, validCardInput())
	require.NoError(t, err)

	second := validCardInput()
	second.Label = "Platinum"
	kept, err := f.cards.Create(ctx, id, second)
	require.NoError(t, err)

	require.NoError(t, f.cards.Delete(ctx, id, first.ID))

	cards, err := f.cards.List(ctx, id)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, kept.ID, cards[0].ID)
}

func TestCardUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.register(t, validRegisterInput())

	card, err := f.cards.Create(ctx, id, validCardInput())
	require.NoError(t, err)

	in := CardInput{BankName: "Itau", Label: "Azul", TotalLimit: 5000}
	updated, err := f.cards.Update(ctx, id, card.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Itau", updated.BankName)
	require.Equal(t, "Azul", updated.Label)
	require.Equal(t, 5000.0, updated.TotalLimit)

	t.Run("keeping own label is not a duplicate", func(t *testing.T) {
		in.TotalLimit = 6000
		_, err := f.cards.Update(ctx, id, card.ID, in)
		require.NoError(t, err)
	})

	t.Run("taking a sibling card's label is", func(t *testing.T) {
		other := validCardInput()
		other.Label = "Gold"
		sibling, err := f.cards.Create(ctx, id, other)
		require.NoError(t, err)

		in := CardInput{BankName: "Itau", Label: "Azul", TotalLimit: 1000}
		_, err = f.cards.Update(ctx, id, sibling.ID, in)
		require.ErrorIs(t, err, ErrLabelTaken)
	})

	t.Run("unknown card", func(t *testing.T) {
		_, err := f.cards.Update(ctx, id, 9999, validCardInput())
		require.ErrorIs(t, err, ErrCardNotFound)
	})
}

func TestCardOwnerScoping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, validRegisterInput())

	other := validRegisterInput()
	other.Email = "bia@example.com"
	other.CPF = ""
	stranger := f.register(t, other)

	card, err := f.cards.Create(ctx, owner, validCardInput())
	require.NoError(t, err)

	// Another user cannot see, edit or delete the card; every operation
	// reports it as missing rather than forbidden.
	_, err = f.cards.Get(ctx, stranger, card.ID)
	require.ErrorIs(t, err, ErrCardNotFound)

	_, err = f.cards.Update(ctx, stranger, card.ID, validCardInput())
	require.ErrorIs(t, err, ErrCardNotFound)

	require.ErrorIs(t, f.cards.Delete(ctx, stranger, card.ID), ErrCardNotFound)

	// The owner still has the card untouched.
	got, err := f.cards.Get(ctx, owner, card.ID)
	require.NoError(t, err)
	require.Equal(t, "Roxinho", got.Label)
}

func TestCardDeleteIsSoft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.register(t, validRegisterInput())

	card, err := f.cards.Create(ctx, id, validCardInput())
	require.NoError(t, err)

	require.NoError(t, f.cards.Delete(ctx, id, card.ID))

	// The row survives with inactive status.
	got, err := f.cards.Get(ctx, id, card.ID)
	require.NoError(t, err)
	require.NotEqual(t, card.Status, got.Status)

	// Deleting again reports the card as missing.
	require.ErrorIs(t, f.cards.Delete(ctx, id, card.ID), ErrCardNotFound)
}
