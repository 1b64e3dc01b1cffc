package sqlite

import (
	"context"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/store"
)

type cardsRepo struct {
	db dbtx
}

const cardColumns = `id, user_id, nome_banco, nome_identificacao, limite_total, valor_fatura, status`

func scanCard(row interface{ Scan(dest ...any) error }) (domain.Card, error) {
	var c domain.Card
	err := row.Scan(
		&c.ID, &c.UserID, &c.BankName, &c.Label,
		&c.TotalLimit, &c.StatementBalance, &c.Status,
	)
	if err != nil {
		return domain.Card{}, mapNotFound(err)
	}
	return c, nil
}

func (r *cardsRepo) CreateCard(ctx context.Context, c domain.Card) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cartoes (user_id, nome_banco, nome_identificacao, limite_total, valor_fatura, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.BankName, c.Label, c.TotalLimit, c.StatementBalance, domain.StatusActive,
	)
	if err != nil {
		return 0, mapConflict(err)
	}
	return res.LastInsertId()
}

func (r *cardsRepo) GetCardByOwner(ctx context.Context, cardID, userID int64) (domain.Card, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cartoes WHERE id = ? AND user_id = ?`,
		cardID, userID)
	return scanCard(row)
}

func (r *cardsRepo) ListActiveCards(ctx context.Context, userID int64) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cartoes WHERE user_id = ? AND status = ? ORDER BY id`,
		userID, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardsRepo) FindByOwnerAndLabel(ctx context.Context, userID int64, label string) (domain.Card, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cartoes WHERE user_id = ? AND nome_identificacao = ?`,
		userID, label)
	return scanCard(row)
}

func (r *cardsRepo) UpdateCard(ctx context.Context, c domain.Card) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cartoes SET nome_banco = ?, nome_identificacao = ?, limite_total = ?
		 WHERE id = ? AND user_id = ?`,
		c.BankName, c.Label, c.TotalLimit, c.ID, c.UserID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRows(res)
}

func (r *cardsRepo) SoftDeleteCard(ctx context.Context, cardID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cartoes SET status = ? WHERE id = ? AND user_id = ? AND status = ?`,
		domain.StatusInactive, cardID, userID, domain.StatusActive)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func requireRows(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
