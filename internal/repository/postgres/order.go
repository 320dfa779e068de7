package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/money"
)

type orderRepository struct {
	db dbtx
}

const orderColumns = `id, customer_id, total_price, profit, cash_amount, credit_amount, unpaid_cash, unpaid_credit, deliver_status, COALESCE(comment, '')`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Profit, &o.CashAmount,
		&o.CreditAmount, &o.UnpaidCash, &o.UnpaidCredit, &o.DeliverStatus, &o.Comment)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) LockForCustomer(ctx context.Context, orderID, customerID int32) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND customer_id = $2 FOR UPDATE`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID, customerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d for customer %d: %w", orderID, customerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int32, status domain.DeliverStatus) error {
	query := `UPDATE orders SET deliver_status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, orderID)
	return err
}

func (r *orderRepository) UpdateFinancials(ctx context.Context, order *domain.Order) error {
	query := `UPDATE orders
	          SET total_price = $1, cash_amount = $2, credit_amount = $3,
	              unpaid_cash = $4, unpaid_credit = $5, deliver_status = $6
	          WHERE id = $7`
	_, err := r.db.ExecContext(ctx, query,
		money.String2(order.TotalPrice),
		money.String2(order.CashAmount),
		money.String2(order.CreditAmount),
		money.String2(order.UnpaidCash),
		money.String2(order.UnpaidCredit),
		order.DeliverStatus,
		order.ID)
	return err
}

func (r *orderRepository) UpdateUnpaid(ctx context.Context, orderID int32, unpaidCash, unpaidCredit decimal.Decimal) error {
	query := `UPDATE orders SET unpaid_cash = $1, unpaid_credit = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, money.String2(unpaidCash), money.String2(unpaidCredit), orderID)
	return err
}

func (r *orderRepository) ListActiveLineItems(ctx context.Context, orderID int32) ([]domain.OrderLineItem, error) {
	query := `SELECT li.id, li.orders_id, li.goods_id, li.supplier_goods_id, li.quantity,
	                 li.each_price, li.eligible_for_credit, li.status, COALESCE(g.commission, 0)
	          FROM order_line_items li
	          LEFT JOIN goods g ON g.id = li.goods_id
	          WHERE li.orders_id = $1 AND li.status != $2
	          ORDER BY li.id ASC`
	rows, err := r.db.QueryContext(ctx, query, orderID, domain.LineItemStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderLineItem
	for rows.Next() {
		var li domain.OrderLineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.GoodsID, &li.SupplierGoodsID,
			&li.Quantity, &li.EachPrice, &li.EligibleForCredit, &li.Status, &li.Commission); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func (r *orderRepository) UpdateLineItemPrice(ctx context.Context, itemID int32, eachPrice decimal.Decimal) error {
	query := `UPDATE order_line_items SET each_price = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, money.String2(eachPrice), itemID)
	return err
}

func (r *orderRepository) CancelLineItems(ctx context.Context, orderID int32) error {
	query := `UPDATE order_line_items SET status = $1 WHERE orders_id = $2`
	_, err := r.db.ExecContext(ctx, query, domain.LineItemStatusCancelled, orderID)
	return err
}

// FIFO ordering is a data-level guarantee: ORDER BY id ASC in the selection,
// not commit order.
func (r *orderRepository) LockDeliveredWithUnpaidCash(ctx context.Context, customerID int32) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE customer_id = $1 AND deliver_status = $2 AND unpaid_cash > 0
	          ORDER BY id ASC FOR UPDATE`
	return r.lockOrders(ctx, query, customerID)
}

func (r *orderRepository) LockDeliveredWithUnpaidCredit(ctx context.Context, customerID int32) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE customer_id = $1 AND deliver_status = $2 AND unpaid_credit > 0
	          ORDER BY id ASC FOR UPDATE`
	return r.lockOrders(ctx, query, customerID)
}

func (r *orderRepository) lockOrders(ctx context.Context, query string, customerID int32) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, customerID, domain.DeliverStatusDelivered)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) SumDeliveredUnpaid(ctx context.Context, customerID int32) (decimal.Decimal, decimal.Decimal, error) {
	var cash, credit decimal.Decimal
	query := `SELECT COALESCE(SUM(unpaid_cash), 0), COALESCE(SUM(unpaid_credit), 0)
	          FROM orders WHERE customer_id = $1 AND deliver_status = $2`
	err := r.db.QueryRowContext(ctx, query, customerID, domain.DeliverStatusDelivered).Scan(&cash, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return cash, credit, nil
}
