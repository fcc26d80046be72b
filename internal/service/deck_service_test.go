package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/mocks"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckService(t *testing.T) {
	_, err := service.NewDeckService(nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewDeckService(&mocks.MockDeckStore{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestDeckService_CreateDeck(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		input          string
		storeErr       error
		wantErr        error
		wantServiceErr bool
		wantName       string
	}{
		{name: "trims name", input: "  Spanish Verbs  ", wantName: "Spanish Verbs"},
		{name: "empty", input: "   ", wantErr: domain.ErrDeckNameLength},
		{name: "too long", input: strings.Repeat("a", 51), wantErr: domain.ErrDeckNameLength},
		{name: "punctuation", input: "Spanish!", wantErr: domain.ErrDeckNameCharacters},
		{name: "taken", input: "Spanish", storeErr: store.ErrDeckNameTaken, wantErr: store.ErrDeckNameTaken},
		{name: "store failure", input: "Spanish", storeErr: errors.New("db down"), wantServiceErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decks := &mocks.MockDeckStore{
				CreateFn: func(_ context.Context, deck *domain.Deck) error {
					if tt.storeErr != nil {
						return tt.storeErr
					}
					deck.ID = 1
					return nil
				},
			}
			svc, err := service.NewDeckService(decks, nil)
			require.NoError(t, err)

			deck, err := svc.CreateDeck(ctx, tt.input)
			if tt.wantErr == nil && !tt.wantServiceErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, deck.Name)
				assert.Equal(t, int64(1), deck.ID)
				return
			}

			require.Error(t, err)
			assert.Nil(t, deck)
			if tt.wantServiceErr {
				var svcErr *service.ServiceError
				assert.ErrorAs(t, err, &svcErr)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeckService_GetDeck(t *testing.T) {
	ctx := context.Background()
	svc, err := service.NewDeckService(&mocks.MockDeckStore{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Deck, error) {
			if id == 1 {
				return &domain.Deck{ID: 1, Name: "French"}, nil
			}
			return nil, store.ErrDeckNotFound
		},
	}, nil)
	require.NoError(t, err)

	deck, err := svc.GetDeck(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "French", deck.Name)

	_, err = svc.GetDeck(ctx, 2)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	_, err = svc.GetDeck(ctx, 0)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestDeckService_RenameDeck(t *testing.T) {
	ctx := context.Background()
	renames := 0
	decks := &mocks.MockDeckStore{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Deck, error) {
			return &domain.Deck{ID: id, Name: "French"}, nil
		},
		RenameFn: func(_ context.Context, _ int64, name string) error {
			renames++
			if name == "Taken" {
				return store.ErrDeckNameTaken
			}
			return nil
		},
	}
	svc, err := service.NewDeckService(decks, nil)
	require.NoError(t, err)

	deck, err := svc.RenameDeck(ctx, 1, " French ")
	require.NoError(t, err)
	assert.Equal(t, "French", deck.Name)
	assert.Zero(t, renames, "unchanged name must not hit the store")

	deck, err = svc.RenameDeck(ctx, 1, "French Verbs")
	require.NoError(t, err)
	assert.Equal(t, "French Verbs", deck.Name)

	_, err = svc.RenameDeck(ctx, 1, "Taken")
	assert.ErrorIs(t, err, store.ErrDeckNameTaken)

	_, err = svc.RenameDeck(ctx, 1, "")
	assert.ErrorIs(t, err, domain.ErrDeckNameLength)
}

func TestDeckService_DeleteDeck(t *testing.T) {
	ctx := context.Background()
	svc, err := service.NewDeckService(&mocks.MockDeckStore{
		DeleteFn: func(_ context.Context, id int64) error {
			if id == 2 {
				return store.ErrDeckNotFound
			}
			return nil
		},
	}, nil)
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteDeck(ctx, 1))
	assert.ErrorIs(t, svc.DeleteDeck(ctx, 2), store.ErrDeckNotFound)
}
