package usecase

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// AnalyticsUseCase derives admin reports from stored orders on every call.
type AnalyticsUseCase struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsUseCase constructs AnalyticsUseCase.
func NewAnalyticsUseCase(repo repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{repo: repo}
}

// OrderCounts returns the number of orders per status.
func (u *AnalyticsUseCase) OrderCounts(ctx context.Context, caller model.Caller) (*model.OrderCounts, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	byStatus, err := u.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	counts := &model.OrderCounts{
		Pending:    byStatus[model.OrderStatusPending],
		InProgress: byStatus[model.OrderStatusInProgress],
		Complete:   byStatus[model.OrderStatusComplete],
		Declined:   byStatus[model.OrderStatusDeclined],
	}
	for _, n := range byStatus {
		counts.Total += n
	}
	return counts, nil
}

// Profit sums every order line of every order, whatever its status.
func (u *AnalyticsUseCase) Profit(ctx context.Context, caller model.Caller) (*model.ProfitReport, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	perOrg, err := u.repo.ProfitByOrganization(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.ProfitReport{Total: money.Zero(), PerOrganization: make(map[string]money.Amount, len(perOrg))}
	for org, sum := range perOrg {
		report.PerOrganization[org] = sum
		report.Total = report.Total.Add(sum)
	}
	return report, nil
}
