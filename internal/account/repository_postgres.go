package account

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `"accountId", email, "firstName", "lastName", phone, "addressBook", "passwordHash", "createdAt", "updatedAt"`

func (r *PostgresRepository) GetByEmail(email string) (Account, error) {
	var a Account
	err := r.db.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE LOWER(email) = LOWER($1)`, email).Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Phone, pq.Array(&a.AddressBook), &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(a Account) (Account, error) {
	err := r.db.QueryRow(`INSERT INTO accounts (email, "firstName", "lastName", phone, "addressBook", "passwordHash", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING "accountId"`,
		a.Email, a.FirstName, a.LastName, a.Phone, pq.Array(a.AddressBook), a.PasswordHash, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Update(id int, a Account) (Account, error) {
	a.ID = id
	res, err := r.db.Exec(`UPDATE accounts SET "firstName" = $1, "lastName" = $2, phone = $3, "addressBook" = $4, "updatedAt" = $5 WHERE "accountId" = $6`,
		a.FirstName, a.LastName, a.Phone, pq.Array(a.AddressBook), a.UpdatedAt, id)
	if err != nil {
		return Account{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Account{}, ErrNotFound
	}
	return a, nil
}
