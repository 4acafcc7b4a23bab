package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashrivastava/shopzone/internal/domain/chat"
)

const (
	createMessageSQL = `INSERT INTO chat_messages
		(id, product_id, product_name, sender_id, sender_name, receiver_id, receiver_name, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	conversationSQL = `SELECT id, product_id, product_name, sender_id, sender_name,
		receiver_id, receiver_name, content, read, created_at
		FROM chat_messages
		WHERE product_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at`

	unreadCountsSQL = `SELECT product_id, sender_id, MAX(sender_name), COUNT(*)
		FROM chat_messages
		WHERE receiver_id = $1 AND NOT read
		GROUP BY product_id, sender_id
		ORDER BY COUNT(*) DESC`

	markReadSQL = `UPDATE chat_messages SET read = TRUE
		WHERE product_id = $1 AND sender_id = $2 AND receiver_id = $3 AND NOT read`
)

var _ chat.Repository = (*ChatRepository)(nil)

// ChatRepository implements chat.Repository backed by PostgreSQL.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository returns a ChatRepository that uses the given pool.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Create persists a message.
func (r *ChatRepository) Create(ctx context.Context, m *chat.Message) error {
	_, err := r.pool.Exec(ctx, createMessageSQL,
		m.ID, m.ProductID, m.ProductName, m.SenderID, m.SenderName,
		m.ReceiverID, m.ReceiverName, m.Text, m.Read, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating chat message %q: %w", m.ID, err)
	}
	return nil
}

// Conversation returns the product-scoped history between the two parties in
// either direction, oldest first.
func (r *ChatRepository) Conversation(ctx context.Context, productID, userID, peerID string) ([]chat.Message, error) {
	rows, err := r.pool.Query(ctx, conversationSQL, productID, userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	return pgx.CollectRows(rows, scanMessage)
}

// UnreadCounts aggregates unread messages to userID by product and sender.
func (r *ChatRepository) UnreadCounts(ctx context.Context, userID string) ([]chat.Unread, error) {
	rows, err := r.pool.Query(ctx, unreadCountsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("counting unread messages: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Unread, error) {
		var u chat.Unread
		err := row.Scan(&u.ProductID, &u.SenderID, &u.SenderName, &u.Count)
		return u, err
	})
}

// MarkRead flips the sender's unread messages to the receiver to read.
func (r *ChatRepository) MarkRead(ctx context.Context, productID, senderID, receiverID string) error {
	_, err := r.pool.Exec(ctx, markReadSQL, productID, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("marking conversation read: %w", err)
	}
	return nil
}

func scanMessage(row pgx.CollectableRow) (chat.Message, error) {
	var m chat.Message
	err := row.Scan(
		&m.ID, &m.ProductID, &m.ProductName, &m.SenderID, &m.SenderName,
		&m.ReceiverID, &m.ReceiverName, &m.Text, &m.Read, &m.CreatedAt,
	)
	return m, err
}
