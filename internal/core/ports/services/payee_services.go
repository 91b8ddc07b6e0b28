package services

import (
	"context"

	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/dto"
)

// PayeeSvcFacade defines the operations offered for payee management.
type PayeeSvcFacade interface {
	CreatePayee(ctx context.Context, req dto.CreatePayeeRequest, creatorUserID string) (*domain.Payee, error)
	GetPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error)
	ListPayees(ctx context.Context, limit int, offset int) ([]domain.Payee, error)
	UpdatePayee(ctx context.Context, payeeID string, req dto.UpdatePayeeRequest, updaterUserID string) (*domain.Payee, error)
}
