package subscribers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
)

type memSubscribers struct {
	byEmail map[string]*models.Subscriber
}

func newMemSubscribers() *memSubscribers {
	return &memSubscribers{byEmail: map[string]*models.Subscriber{}}
}

func (r *memSubscribers) Create(_ context.Context, subscriber *models.Subscriber) (*models.Subscriber, error) {
	if _, exists := r.byEmail[subscriber.Email]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	subscriber.ID = uuid.New()
	clone := *subscriber
	r.byEmail[subscriber.Email] = &clone
	return subscriber, nil
}

func (r *memSubscribers) FindByEmail(_ context.Context, email string) (*models.Subscriber, error) {
	if s, ok := r.byEmail[email]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSubscribers) List(_ context.Context, limit, offset int) ([]models.Subscriber, int64, error) {
	var rows []models.Subscriber
	for _, s := range r.byEmail {
		rows = append(rows, *s)
	}
	return rows, int64(len(rows)), nil
}

func TestSubscribe(t *testing.T) {
	svc, err := NewService(newMemSubscribers())
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Subscribe(ctx, "  Reader@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", created.Email)

	_, err = svc.Subscribe(ctx, "reader@example.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	svc, err := NewService(newMemSubscribers())
	require.NoError(t, err)

	for _, email := range []string{"", "   ", "not-an-email"} {
		_, err := svc.Subscribe(context.Background(), email)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "email %q", email)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}
