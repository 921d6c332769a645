package account

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestGetByEmail_CaseInsensitiveQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"accountId", "email", "firstName", "lastName", "phone", "addressBook", "passwordHash", "createdAt", "updatedAt"}).
		AddRow(7, "Shopper@Example.com", "Lina", "Haddad", "+9715000000", pq.StringArray{"12 Marina Walk"}, "$2a$10$hash", "t", "u")
	mock.ExpectQuery(`LOWER\(email\) = LOWER\(\$1\)`).WithArgs("SHOPPER@example.com").WillReturnRows(rows)

	a, err := repo.GetByEmail("SHOPPER@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 7 || a.FirstName != "Lina" {
		t.Fatalf("unexpected account %+v", a)
	}
	if len(a.AddressBook) != 1 {
		t.Errorf("unexpected address book %v", a.AddressBook)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM accounts`).WithArgs("missing@example.com").WillReturnRows(sqlmock.NewRows([]string{"accountId"}))

	if _, err := repo.GetByEmail("missing@example.com"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_ReturnsGeneratedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"accountId"}).AddRow(42))

	a, err := repo.Create(Account{Email: "new@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 42 {
		t.Errorf("expected id 42, got %d", a.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
