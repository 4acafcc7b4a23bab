package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashrivastava/shopzone/internal/domain/chat"
)

type sendMessageRequest struct {
	ProductID    string `json:"productId"`
	ReceiverID   string `json:"receiverId"`
	ReceiverName string `json:"receiverName"`
	Text         string `json:"text"`
}

type messageResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	ReceiverID   string    `json:"receiverId"`
	ReceiverName string    `json:"receiverName"`
	Text         string    `json:"text"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.chats.Send(r.Context(), &chat.Message{
		ProductID:    p.ID,
		ProductName:  p.Name,
		SenderID:     id.ID,
		SenderName:   h.senderName(r, id.ID),
		ReceiverID:   req.ReceiverID,
		ReceiverName: req.ReceiverName,
		Text:         req.Text,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageResponse(m))
}

// senderName resolves the display name for either identity kind. Chat is open
// to both buyers and sellers, so the lookup tries both tables.
func (h *Handler) senderName(r *http.Request, id string) string {
	if u, err := h.users.GetByID(r.Context(), id); err == nil {
		return u.Name
	}
	if s, err := h.sellers.GetByID(r.Context(), id); err == nil {
		return s.ShopName
	}
	return ""
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	msgs, err := h.chats.Conversation(r.Context(),
		chi.URLParam(r, "productId"), id.ID, chi.URLParam(r, "peerId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]messageResponse, len(msgs))
	for i := range msgs {
		out[i] = toMessageResponse(&msgs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) unreadCounts(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	unread, err := h.chats.UnreadCounts(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]struct {
		ProductID  string `json:"productId"`
		SenderID   string `json:"senderId"`
		SenderName string `json:"senderName"`
		Count      int    `json:"count"`
	}, len(unread))
	for i, u := range unread {
		out[i].ProductID = u.ProductID
		out[i].SenderID = u.SenderID
		out[i].SenderName = u.SenderName
		out[i].Count = u.Count
	}
	writeJSON(w, http.StatusOK, out)
}

type markReadRequest struct {
	ProductID string `json:"productId"`
	PeerID    string `json:"peerId"`
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req markReadRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.chats.MarkRead(r.Context(), req.ProductID, req.PeerID, id.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toMessageResponse(m *chat.Message) messageResponse {
	return messageResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		ReceiverID:   m.ReceiverID,
		ReceiverName: m.ReceiverName,
		Text:         m.Text,
		Read:         m.Read,
		CreatedAt:    m.CreatedAt,
	}
}
