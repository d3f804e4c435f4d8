package affiliationservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
	affiliationrepo "github.com/marketsaas/marketsaas/internal/repo/affiliation-repo"
)

type Repo interface {
	Create(ctx context.Context, affiliation *domain.Affiliation) (*domain.Affiliation, error)
	GetByID(ctx context.Context, id string) (*domain.Affiliation, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Affiliation, error)
	FindActiveByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Affiliation, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.Affiliation, error)
	UpdateStatus(ctx context.Context, id string, status domain.AffiliationStatus) error
}
type ProductRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
type ProfileRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}
type Notifier interface {
	Add(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
}

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotFound          = errors.New("affiliation not found")
	ErrNotProductOwner   = errors.New("only the product owner can review affiliations")
	ErrInvalidStatus     = errors.New("status must be approved or rejected")
	ErrInvalidTransition = errors.New("only pending affiliations can be reviewed")
)

type Service struct {
	repo        Repo
	productRepo ProductRepo
	profileRepo ProfileRepo
	notifier    Notifier
}

func New(repo Repo, productRepo ProductRepo, profileRepo ProfileRepo, notifier Notifier) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
	}
}

// RequestResult reports the outcome of a request. AlreadyRequested marks the
// duplicate no-op: no record created, no notification sent.
type RequestResult struct {
	AffiliationID    string
	Status           domain.AffiliationStatus
	AlreadyRequested bool
}

// Request creates an affiliation for (userID, productID). The product's
// auto-approve flag decides the initial status, and the product owner is
// notified after the record is persisted. A pending or approved affiliation
// for the same pair makes the call a no-op; a rejected one does not block.
func (s *Service) Request(ctx context.Context, userID, productID string) (*RequestResult, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		zap.L().Error("can't load product for affiliation request", zap.Error(err))
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.FindActiveByUserAndProduct(ctx, userID, productID)
	if err != nil {
		zap.L().Error("can't check existing affiliation", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return &RequestResult{
			AffiliationID:    existing.ID,
			Status:           existing.Status,
			AlreadyRequested: true,
		}, nil
	}

	status := domain.AffiliationPending
	if product.AutoApproveAffiliates {
		status = domain.AffiliationApproved
	}

	affiliation := &domain.Affiliation{
		UserID:       userID,
		ProductID:    productID,
		Status:       status,
		ReferralCode: generateReferralCode(userID, productID, time.Now()),
	}

	created, err := s.repo.Create(ctx, affiliation)
	if err != nil {
		// Lost the race against a concurrent request for the same pair; the
		// store's uniqueness constraint makes this the same no-op as the
		// duplicate check above.
		if errors.Is(err, affiliationrepo.ErrDuplicate) {
			return &RequestResult{AlreadyRequested: true}, nil
		}
		zap.L().Error("can't create affiliation", zap.Error(err))
		return nil, err
	}

	if err := s.notifyProducer(ctx, product, created, userID); err != nil {
		return nil, err
	}

	zap.L().Info("affiliation requested",
		zap.String("affiliationID", created.ID),
		zap.String("productID", productID),
		zap.String("status", string(created.Status)))
	return &RequestResult{AffiliationID: created.ID, Status: created.Status}, nil
}

func (s *Service) notifyProducer(ctx context.Context, product *domain.Product, affiliation *domain.Affiliation, affiliateID string) error {
	affiliateName := "A user"
	affiliateEmail := ""
	if profile, err := s.profileRepo.GetByID(ctx, affiliateID); err == nil && profile != nil {
		affiliateName = profile.Name
		affiliateEmail = profile.Email
	}

	notification := &domain.Notification{
		UserID: product.OwnerID,
		Data: map[string]string{
			"affiliation_id":  affiliation.ID,
			"product_id":      product.ID,
			"product_name":    product.Name,
			"affiliate_id":    affiliateID,
			"affiliate_name":  affiliateName,
			"affiliate_email": affiliateEmail,
		},
	}
	if affiliation.Status == domain.AffiliationApproved {
		notification.Type = domain.NotificationAffiliationApproved
		notification.Title = "New Affiliate Approved"
		notification.Message = fmt.Sprintf("%s (%s) was automatically approved as an affiliate of %q", affiliateName, affiliateEmail, product.Name)
	} else {
		notification.Type = domain.NotificationAffiliationRequest
		notification.Title = "New Affiliation Request"
		notification.Message = fmt.Sprintf("%s (%s) requested affiliation to %q", affiliateName, affiliateEmail, product.Name)
	}

	if _, err := s.notifier.Add(ctx, notification); err != nil {
		zap.L().Error("can't notify producer about affiliation", zap.Error(err))
		return err
	}
	return nil
}

// SetStatus reviews a pending affiliation. Only the product owner may call
// it, the referral code and timestamps stay untouched, and the affiliate is
// notified after the status is stored.
func (s *Service) SetStatus(ctx context.Context, reviewerID, affiliationID string, status domain.AffiliationStatus) error {
	if status != domain.AffiliationApproved && status != domain.AffiliationRejected {
		return ErrInvalidStatus
	}

	affiliation, err := s.repo.GetByID(ctx, affiliationID)
	if err != nil {
		zap.L().Error("can't load affiliation", zap.Error(err))
		return err
	}
	if affiliation == nil {
		return ErrNotFound
	}
	if affiliation.Status != domain.AffiliationPending {
		return ErrInvalidTransition
	}

	product, err := s.productRepo.GetByID(ctx, affiliation.ProductID)
	if err != nil {
		zap.L().Error("can't load product for affiliation review", zap.Error(err))
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.OwnerID != reviewerID {
		return ErrNotProductOwner
	}

	if err := s.repo.UpdateStatus(ctx, affiliationID, status); err != nil {
		zap.L().Error("can't update affiliation status", zap.Error(err))
		return err
	}

	notification := &domain.Notification{
		UserID: affiliation.UserID,
		Data: map[string]string{
			"product_id":   product.ID,
			"product_name": product.Name,
		},
	}
	if status == domain.AffiliationApproved {
		notification.Type = domain.NotificationAffiliationApproved
		notification.Title = "Affiliation Approved!"
		notification.Message = fmt.Sprintf("Your affiliation request for %q was approved! You can start promoting now.", product.Name)
	} else {
		notification.Type = domain.NotificationAffiliationRejected
		notification.Title = "Affiliation Rejected"
		notification.Message = fmt.Sprintf("Your affiliation request for %q was rejected by the producer.", product.Name)
	}

	if _, err := s.notifier.Add(ctx, notification); err != nil {
		zap.L().Error("can't notify affiliate about review", zap.Error(err))
		return err
	}

	zap.L().Info("affiliation reviewed",
		zap.String("affiliationID", affiliationID),
		zap.String("status", string(status)))
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Affiliation, error) {
	affiliations, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("can't fetch affiliations", zap.Error(err))
		return nil, err
	}
	return affiliations, nil
}

// GetByReferralCode resolves an affiliate link back to its affiliation.
func (s *Service) GetByReferralCode(ctx context.Context, code string) (*domain.Affiliation, error) {
	affiliation, err := s.repo.FindByReferralCode(ctx, code)
	if err != nil {
		zap.L().Error("can't resolve referral code", zap.Error(err))
		return nil, err
	}
	if affiliation == nil {
		return nil, ErrNotFound
	}
	return affiliation, nil
}

// generateReferralCode builds a practically unique token from prefixes of
// both ids and a base-36 millisecond timestamp, without a central sequence.
func generateReferralCode(userID, productID string, now time.Time) string {
	return idPrefix(userID) + "-" + idPrefix(productID) + "-" + strconv.FormatInt(now.UnixMilli(), 36)
}

func idPrefix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
