package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/api/repository"
	"stocksense-api/internal/entity"
	"stocksense-api/pkg/logger"

	"github.com/shopspring/decimal"
)

// PortfolioService manages holdings and computes their valuation against the
// quote source.
type PortfolioService interface {
	AddHolding(ctx context.Context, req *dto.CreateHoldingRequest) (*dto.HoldingResponse, error)
	DeleteHolding(ctx context.Context, id, userID string) error
	ListHoldings(ctx context.Context, userID string) (*dto.PortfolioResponse, error)
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(holdingRepo repository.PortfolioHoldingRepository, quoteRepo repository.QuoteRepository, log *logger.Logger) PortfolioService {
	return &portfolioService{
		holdingRepo: holdingRepo,
		quoteRepo:   quoteRepo,
		logger:      log,
	}
}

type portfolioService struct {
	holdingRepo repository.PortfolioHoldingRepository
	quoteRepo   repository.QuoteRepository
	logger      *logger.Logger
}

// AddHolding validates and records a new holding.
func (s *portfolioService) AddHolding(ctx context.Context, req *dto.CreateHoldingRequest) (*dto.HoldingResponse, error) {
	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidHolding)
	}
	if req.Shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be greater than zero", ErrInvalidHolding)
	}
	if req.PurchasePrice < 0 {
		return nil, fmt.Errorf("%w: purchase price cannot be negative", ErrInvalidHolding)
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: purchase date must be YYYY-MM-DD", ErrInvalidHolding)
	}

	holding := &entity.PortfolioHolding{
		UserID:        req.UserID,
		Symbol:        symbol,
		CompanyName:   req.CompanyName,
		Shares:        req.Shares,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
		Notes:         req.Notes,
	}
	if err := s.holdingRepo.Create(ctx, holding); err != nil {
		s.logger.Error("Failed to create holding", logger.ErrorField(err), logger.Field("user_id", req.UserID))
		return nil, err
	}

	s.logger.Info("Holding added",
		logger.Field("holding_id", holding.ID),
		logger.Field("symbol", holding.Symbol))

	resp := s.mapToHoldingResponse(ctx, holding)
	return &resp, nil
}

// DeleteHolding removes a holding owned by the requester.
func (s *portfolioService) DeleteHolding(ctx context.Context, id, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	deleted, err := s.holdingRepo.DeleteForUser(ctx, id, userID)
	if err != nil {
		s.logger.Error("Failed to delete holding", logger.ErrorField(err), logger.Field("holding_id", id))
		return err
	}
	if deleted == 0 {
		return ErrHoldingNotFound
	}

	s.logger.Info("Holding deleted", logger.Field("holding_id", id))
	return nil
}

// ListHoldings returns the requester's holdings with per-holding metrics and
// the aggregated portfolio summary.
func (s *portfolioService) ListHoldings(ctx context.Context, userID string) (*dto.PortfolioResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	holdings, err := s.holdingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PortfolioResponse{Holdings: make([]dto.HoldingResponse, 0, len(holdings))}
	totalCost := decimal.Zero
	totalValue := decimal.Zero

	for i := range holdings {
		hr := s.mapToHoldingResponse(ctx, &holdings[i])
		resp.Holdings = append(resp.Holdings, hr)
		totalCost = totalCost.Add(decimal.NewFromFloat(hr.Metrics.TotalCost))
		totalValue = totalValue.Add(decimal.NewFromFloat(hr.Metrics.CurrentValue))
	}

	gainLoss := totalValue.Sub(totalCost)
	resp.Summary = dto.PortfolioSummary{
		TotalCost:       totalCost.InexactFloat64(),
		TotalValue:      totalValue.InexactFloat64(),
		TotalGainLoss:   gainLoss.InexactFloat64(),
		GainLossPercent: gainLossPercent(gainLoss, totalCost),
		HoldingCount:    len(holdings),
	}
	return resp, nil
}

// currentPrice resolves the holding's quote, falling back to the purchase
// price for symbols the quote source does not know.
func (s *portfolioService) currentPrice(ctx context.Context, holding *entity.PortfolioHolding) float64 {
	if price, ok := s.quoteRepo.GetQuote(ctx, holding.Symbol); ok {
		return price
	}
	return holding.PurchasePrice
}

func (s *portfolioService) mapToHoldingResponse(ctx context.Context, holding *entity.PortfolioHolding) dto.HoldingResponse {
	return dto.HoldingResponse{
		ID:            holding.ID,
		Symbol:        holding.Symbol,
		CompanyName:   holding.CompanyName,
		Shares:        holding.Shares,
		PurchasePrice: holding.PurchasePrice,
		PurchaseDate:  holding.PurchaseDate,
		Notes:         holding.Notes,
		Metrics:       ComputeHoldingMetrics(holding.Shares, holding.PurchasePrice, s.currentPrice(ctx, holding)),
		CreatedAt:     holding.CreatedAt,
	}
}

// ComputeHoldingMetrics values one holding against the current price. Pure
// arithmetic; the percent is zero when the cost basis is zero.
func ComputeHoldingMetrics(shares, purchasePrice, currentPrice float64) dto.HoldingMetrics {
	sharesDec := decimal.NewFromFloat(shares)
	totalCost := sharesDec.Mul(decimal.NewFromFloat(purchasePrice))
	currentValue := sharesDec.Mul(decimal.NewFromFloat(currentPrice))
	gainLoss := currentValue.Sub(totalCost)

	return dto.HoldingMetrics{
		CurrentPrice:    currentPrice,
		TotalCost:       totalCost.InexactFloat64(),
		CurrentValue:    currentValue.InexactFloat64(),
		GainLoss:        gainLoss.InexactFloat64(),
		GainLossPercent: gainLossPercent(gainLoss, totalCost),
	}
}

func gainLossPercent(gainLoss, totalCost decimal.Decimal) float64 {
	if totalCost.IsZero() {
		return 0
	}
	return gainLoss.Div(totalCost).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
