package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	reviews []Review
}

func (m *memoryRepo) Create(_ context.Context, r *Review) error {
	m.reviews = append([]Review{*r}, m.reviews...)
	return nil
}

func (m *memoryRepo) ListByProduct(_ context.Context, productID string) ([]Review, error) {
	var out []Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) AddFeedback(_ context.Context, reviewID string, helpful bool) error {
	for i := range m.reviews {
		if m.reviews[i].ID == reviewID {
			if helpful {
				m.reviews[i].Helpful++
			} else {
				m.reviews[i].NotHelpful++
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryRepo) DeleteOwned(_ context.Context, reviewID, userID string) error {
	for i, r := range m.reviews {
		if r.ID == reviewID && r.UserID == userID {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		comment string
		wantErr error
	}{
		{"rating too low", 0, "fine", ErrInvalidRating},
		{"rating too high", 6, "fine", ErrInvalidRating},
		{"blank comment", 4, "  ", ErrEmptyComment},
		{"valid", 5, "great bottle", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&memoryRepo{})

			got, err := svc.Create(context.Background(), &Review{
				ProductID: "p1",
				UserID:    "u1",
				Rating:    tt.rating,
				Comment:   tt.comment,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Zero(t, got.Helpful)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestListByProduct_NewestFirst(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, &Review{ProductID: "p1", UserID: "u1", Rating: 4, Comment: "good"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &Review{ProductID: "p1", UserID: "u2", Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	got, err := svc.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestAddFeedback(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	r, err := svc.Create(ctx, &Review{ProductID: "p1", UserID: "u1", Rating: 4, Comment: "good"})
	require.NoError(t, err)

	require.NoError(t, svc.AddFeedback(ctx, r.ID, true))
	require.NoError(t, svc.AddFeedback(ctx, r.ID, true))
	require.NoError(t, svc.AddFeedback(ctx, r.ID, false))

	got, err := svc.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].Helpful)
	assert.Equal(t, 1, got[0].NotHelpful)

	assert.ErrorIs(t, svc.AddFeedback(ctx, "missing", true), ErrNotFound)
}

func TestDelete_AuthorOnly(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	r, err := svc.Create(ctx, &Review{ProductID: "p1", UserID: "u1", Rating: 4, Comment: "good"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, r.ID, "u2"), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, r.ID, "u1"))
	got, err := svc.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
