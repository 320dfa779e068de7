package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"wholesale-market-backend/internal/domain"
)

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "phone", "total_credit", "total_unpaid", "permitted_credit"})
}

func TestCustomerRepository_LockByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1 FOR UPDATE`).
			WithArgs(int32(7)).
			WillReturnRows(customerRows().AddRow(7, "Mingalar Store", "09791234567", "100.00", "250.00", "500.00"))

		customer, err := repo.LockByID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), customer.ID)
		assert.True(t, customer.CreditHeadroom().Equal(decimalFromString(t, "400.00")))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1 FOR UPDATE`).
			WithArgs(int32(99)).
			WillReturnRows(customerRows())

		_, err := repo.LockByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCustomerRepository_AddToTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("AdditiveUpdate", func(t *testing.T) {
		mock.ExpectExec(`total_credit = total_credit \+ \$1, total_unpaid = total_unpaid \+ \$2`).
			WithArgs("300.00", "450.00", int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AddToTotals(ctx, 7, decimalFromString(t, "300"), decimalFromString(t, "450"))
		assert.NoError(t, err)
	})
}

func TestCustomerRepository_SetTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE customers SET total_credit = \$1, total_unpaid = \$2`).
			WithArgs("40.00", "150.00", int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetTotals(ctx, 7, decimalFromString(t, "40"), decimalFromString(t, "150"))
		assert.NoError(t, err)
	})
}

func TestCustomerRepository_ManualSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("ReadsKindColumn", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(manual_credit, 0\) FROM customers`).
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"manual_credit"}).AddRow("-20.00"))

		amount, err := repo.ManualSummary(ctx, 7, domain.LedgerKindCredit)
		assert.NoError(t, err)
		assert.True(t, amount.Equal(decimalFromString(t, "-20.00")))
	})

	t.Run("NullColumnReadsAsZero", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(manual_loss, 0\) FROM customers`).
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"manual_loss"}).AddRow("0"))

		amount, err := repo.ManualSummary(ctx, 7, domain.LedgerKindLoss)
		assert.NoError(t, err)
		assert.True(t, amount.IsZero())
	})
}

func TestCustomerRepository_AddToManualSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("CoalescesNullBeforeAdding", func(t *testing.T) {
		mock.ExpectExec(`UPDATE customers SET manual_credit = COALESCE\(manual_credit, 0\) \+ \$1`).
			WithArgs("-20.00", int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AddToManualSummary(ctx, 7, domain.LedgerKindCredit, decimalFromString(t, "-20"))
		assert.NoError(t, err)
	})
}

func TestCustomerRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM customers ORDER BY id ASC`).
			WillReturnRows(customerRows().
				AddRow(1, "A", "", "0", "0", "100.00").
				AddRow(2, "B", "", "50.00", "75.00", "200.00"))

		customers, err := repo.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, customers, 2)
		assert.Equal(t, "B", customers[1].Name)
	})
}
