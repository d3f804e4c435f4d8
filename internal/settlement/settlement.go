package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marketsaas/marketsaas/internal/config"
	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/pg"
	"github.com/marketsaas/marketsaas/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var settlingSales sync.Map

// Response is the payment processor's status payload for one sale.
type Response struct {
	Sale   string `json:"sale"`
	Status string `json:"status"`
}

type SaleRepo interface {
	FindForSettlement(ctx context.Context, limit uint32) ([]domain.Sale, error)
	UpdateStatus(ctx context.Context, saleID string, status domain.SaleStatus) error
}
type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
}
type Notifier interface {
	Add(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
}

// Service polls the payment processor for sales still in pending status and,
// once a terminal status comes back, writes the ledger entries and notifies
// the participants. Credits and the status change go through one transaction;
// notifications follow only after it commits.
type Service struct {
	url             string
	saleRepo        SaleRepo
	transactionRepo TransactionRepo
	notifier        Notifier
	txManager       pg.TXManager
	client          clients.HTTPClientI
	limit           uint32
	workerPool      WorkerPoolI
	updateInterval  time.Duration
}

func New(cfg *config.Config, saleRepo SaleRepo, transactionRepo TransactionRepo, notifier Notifier, txManager pg.TXManager, client clients.HTTPClientI) *Service {
	return &Service{
		url:             cfg.ProcessorAddress,
		saleRepo:        saleRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
		txManager:       txManager,
		client:          client,
		limit:           1000,
		workerPool:      NewWorkerPool(10),
		updateInterval:  time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Settlement service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping settlement service")
			return
		case <-ticker.C:
			s.processSales(ctx)
		}
	}
}

func (s *Service) processSales(ctx context.Context) {
	sales, err := s.saleRepo.FindForSettlement(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch sales for settlement", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, sale := range sales {
		sale := sale

		if _, loaded := settlingSales.LoadOrStore(sale.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer settlingSales.Delete(sale.ID)
				return s.handleSale(ctx, sale)
			})
			if err != nil {
				settlingSales.Delete(sale.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error settling sales", zap.Error(err))
	}
}

func (s *Service) handleSale(ctx context.Context, sale domain.Sale) error {
	url := s.url + "/api/sales/" + sale.ID
	var err error
	var statusCode int
	var respBody []byte
	var respHeaders http.Header

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, respBody, respHeaders, err = s.client.Get(url, nil)
			if err != nil {
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return fmt.Errorf("failed to settle sale %s after %d retries: %w", sale.ID, maxRetries, err)
			}

			switch statusCode {
			case http.StatusTooManyRequests:
				return s.handleRateLimit(sale, respHeaders, attempt)
			case http.StatusNoContent:
				zap.L().Warn("Sale not known to processor yet", zap.String("saleID", sale.ID), zap.Int("attempt", attempt))
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return fmt.Errorf("sale %s still unknown to processor after %d retries", sale.ID, maxRetries)

			case http.StatusOK:
				return s.processStatus(ctx, sale, respBody)

			default:
				zap.L().Error("Unexpected status code from processor", zap.Int("status", statusCode), zap.String("saleID", sale.ID))
				return errors.New("unexpected status code")
			}
		}
	}
	return nil
}

func (s *Service) processStatus(ctx context.Context, sale domain.Sale, respBody []byte) error {
	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return fmt.Errorf("failed to parse processor response: %w", err)
	}

	if response.Sale != sale.ID {
		return fmt.Errorf("sale id mismatch: expected %s, got %s", sale.ID, response.Sale)
	}

	switch response.Status {
	case "COMPLETED":
		return s.settleCompleted(ctx, sale)
	case "REFUNDED":
		return s.settleReversal(ctx, sale, domain.SaleRefunded)
	case "CHARGEBACK":
		return s.settleReversal(ctx, sale, domain.SaleChargeback)
	case "PENDING", "PROCESSING":
		zap.L().Info("Sale still processing", zap.String("saleID", sale.ID))
		return nil
	default:
		zap.L().Warn("Unrecognized processor status", zap.String("saleID", sale.ID), zap.String("status", response.Status))
		return nil
	}
}

// settleCompleted writes the status change and both credits in one
// transaction, then notifies the producer and (if any) the affiliate. The
// producer keeps the sale amount minus the commission stored on the sale.
func (s *Service) settleCompleted(ctx context.Context, sale domain.Sale) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.saleRepo.UpdateStatus(ctx, sale.ID, domain.SaleCompleted); err != nil {
			return err
		}

		producerCut := sale.Amount.Sub(sale.CommissionAmount)
		if _, err := s.transactionRepo.Create(ctx, &domain.Transaction{
			UserID:      sale.ProducerID,
			SaleID:      sale.ID,
			Type:        domain.TransactionCredit,
			Description: fmt.Sprintf("Sale to %s", sale.CustomerEmail),
			Amount:      producerCut,
			Status:      domain.TransactionCompleted,
		}); err != nil {
			return err
		}

		if sale.AffiliateID != "" {
			if _, err := s.transactionRepo.Create(ctx, &domain.Transaction{
				UserID:      sale.AffiliateID,
				SaleID:      sale.ID,
				Type:        domain.TransactionCredit,
				Description: fmt.Sprintf("Commission for sale to %s", sale.CustomerEmail),
				Amount:      sale.CommissionAmount,
				Status:      domain.TransactionCompleted,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to settle sale %s: %w", sale.ID, err)
	}

	if err := s.notifyCompleted(ctx, sale); err != nil {
		return err
	}

	zap.L().Info("Sale settled",
		zap.String("saleID", sale.ID),
		zap.String("amount", sale.Amount.String()))
	return nil
}

func (s *Service) notifyCompleted(ctx context.Context, sale domain.Sale) error {
	producerCut := sale.Amount.Sub(sale.CommissionAmount)
	if _, err := s.notifier.Add(ctx, &domain.Notification{
		UserID:  sale.ProducerID,
		Type:    domain.NotificationNewSale,
		Title:   "New Sale!",
		Message: fmt.Sprintf("You sold to %s for %s (your share: %s)", sale.CustomerEmail, sale.Amount.StringFixed(2), producerCut.StringFixed(2)),
		Data: map[string]string{
			"sale_id":    sale.ID,
			"product_id": sale.ProductID,
			"amount":     sale.Amount.StringFixed(2),
		},
	}); err != nil {
		zap.L().Error("can't notify producer about sale", zap.Error(err))
		return err
	}

	if sale.AffiliateID == "" {
		return nil
	}
	if _, err := s.notifier.Add(ctx, &domain.Notification{
		UserID:  sale.AffiliateID,
		Type:    domain.NotificationNewReferral,
		Title:   "Commission Earned!",
		Message: fmt.Sprintf("Your referral converted: %s commission on a %s sale", sale.CommissionAmount.StringFixed(2), sale.Amount.StringFixed(2)),
		Data: map[string]string{
			"sale_id":    sale.ID,
			"product_id": sale.ProductID,
			"commission": sale.CommissionAmount.StringFixed(2),
		},
	}); err != nil {
		zap.L().Error("can't notify affiliate about referral", zap.Error(err))
		return err
	}
	return nil
}

// settleReversal records a refund or chargeback: the sale flips to its
// terminal status and both participants get offsetting refund entries.
func (s *Service) settleReversal(ctx context.Context, sale domain.Sale, status domain.SaleStatus) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.saleRepo.UpdateStatus(ctx, sale.ID, status); err != nil {
			return err
		}

		producerCut := sale.Amount.Sub(sale.CommissionAmount)
		if _, err := s.transactionRepo.Create(ctx, &domain.Transaction{
			UserID:      sale.ProducerID,
			SaleID:      sale.ID,
			Type:        domain.TransactionRefund,
			Description: fmt.Sprintf("Reversal (%s) of sale to %s", status, sale.CustomerEmail),
			Amount:      producerCut.Neg(),
			Status:      domain.TransactionCompleted,
		}); err != nil {
			return err
		}

		if sale.AffiliateID != "" {
			if _, err := s.transactionRepo.Create(ctx, &domain.Transaction{
				UserID:      sale.AffiliateID,
				SaleID:      sale.ID,
				Type:        domain.TransactionRefund,
				Description: fmt.Sprintf("Commission reversal (%s)", status),
				Amount:      sale.CommissionAmount.Neg(),
				Status:      domain.TransactionCompleted,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reverse sale %s: %w", sale.ID, err)
	}

	zap.L().Info("Sale reversed",
		zap.String("saleID", sale.ID),
		zap.String("status", string(status)))
	return nil
}

func (s *Service) handleRateLimit(sale domain.Sale, respHeaders http.Header, attempt int) error {
	retryAfterHeader := respHeaders.Get("Retry-After")
	retryAfter := retryInterval * time.Duration(attempt)

	if retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	zap.L().Warn(
		"Rate limit detected, retrying",
		zap.String("saleID", sale.ID),
		zap.Int("attempt", attempt),
		zap.Duration("retryAfter", retryAfter),
	)
	time.Sleep(retryAfter)
	return nil
}
