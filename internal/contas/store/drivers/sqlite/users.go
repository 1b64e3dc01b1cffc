package sqlite

import (
	"context"
	"time"

	"github.com/controlefin/contas/internal/contas/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, nome, email, senha, cpf, dt_nascimento, tipo_user, status, ultimo_login`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var r userRow
	err := row.Scan(
		&r.id, &r.name, &r.email, &r.password,
		&r.cpf, &r.birthDate, &r.kind, &r.status, &r.lastLogin,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.toDomain(), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByCPF(ctx context.Context, cpf string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE cpf = ?`, cpf)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (nome, email, senha, cpf, dt_nascimento, tipo_user, status, ultimo_login)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		u.Name, u.Email, u.Password,
		nullIfEmpty(u.CPF), nullIfEmpty(u.BirthDate),
		u.Kind, u.Status,
	)
	if err != nil {
		return 0, mapConflict(err)
	}
	return res.LastInsertId()
}

func (r *usersRepo) UpdateName(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET nome = ? WHERE id = ?`, name, userID)
	return err
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID int64, password string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET senha = ? WHERE id = ?`, password, userID)
	return err
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID int64, email string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ? WHERE id = ?`, email, userID)
	return mapConflict(err)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET ultimo_login = ? WHERE id = ?`, formatTime(at), userID)
	return err
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
