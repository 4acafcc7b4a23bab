// Package chat implements product-scoped buyer/seller messaging.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Message is a single chat line between two parties about a product. Sender
// and receiver names are denormalized at send time so conversation views
// never join against the account tables.
type Message struct {
	ID           string
	ProductID    string
	ProductName  string
	SenderID     string
	SenderName   string
	ReceiverID   string
	ReceiverName string
	Text         string
	Read         bool
	CreatedAt    time.Time
}

// Unread is the per-peer unread tally shown on the conversations screen.
type Unread struct {
	ProductID  string
	SenderID   string
	SenderName string
	Count      int
}

// ErrEmptyMessage is returned when a message with no text is sent.
var ErrEmptyMessage = errors.New("message text must not be empty")

// Repository defines persistence operations for chat messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	// Conversation returns all messages about the product exchanged between
	// the two parties, in either direction, oldest first.
	Conversation(ctx context.Context, productID, userID, peerID string) ([]Message, error)
	// UnreadCounts aggregates unread messages addressed to userID, grouped
	// by product and sender.
	UnreadCounts(ctx context.Context, userID string) ([]Unread, error)
	// MarkRead flips every unread message from senderID to receiverID about
	// the product to read. Already-read messages are untouched.
	MarkRead(ctx context.Context, productID, senderID, receiverID string) error
}

// Service wraps the repository with send-time validation and stamping.
type Service struct {
	messages Repository
}

// NewService creates a chat Service.
func NewService(messages Repository) *Service {
	return &Service{messages: messages}
}

// Send validates and persists a message. The caller supplies the denormalized
// names; ID and timestamp are assigned here.
func (s *Service) Send(ctx context.Context, m *Message) (*Message, error) {
	if strings.TrimSpace(m.Text) == "" {
		return nil, ErrEmptyMessage
	}
	m.ID = uuid.New().String()
	m.Read = false
	m.CreatedAt = time.Now()
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	return m, nil
}

// Conversation returns the message history between the caller and a peer for
// one product, oldest first.
func (s *Service) Conversation(ctx context.Context, productID, userID, peerID string) ([]Message, error) {
	return s.messages.Conversation(ctx, productID, userID, peerID)
}

// UnreadCounts returns the caller's unread tallies grouped by conversation.
func (s *Service) UnreadCounts(ctx context.Context, userID string) ([]Unread, error) {
	return s.messages.UnreadCounts(ctx, userID)
}

// MarkRead marks the peer's messages to the caller about the product as read.
func (s *Service) MarkRead(ctx context.Context, productID, peerID, userID string) error {
	return s.messages.MarkRead(ctx, productID, peerID, userID)
}
