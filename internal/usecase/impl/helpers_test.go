package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"horizons/internal/domain/repository"
	mockRepo "horizons/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// expectTransaction makes txManager run the callback against a factory that hands out txRepo.
func expectTransaction(t *testing.T, txManager *mockRepo.MockTransactionManager) *mockRepo.MockAccountRepository {
	t.Helper()

	txRepo := mockRepo.NewMockAccountRepository(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().AccountRepo().Return(txRepo)

	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})

	return txRepo
}
