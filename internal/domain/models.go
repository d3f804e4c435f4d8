package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductModel string

const (
	ModelRecurring  ProductModel = "recurring"
	ModelWhitelabel ProductModel = "whitelabel"
)

type ProductStatus string

const (
	ProductActive ProductStatus = "active"
	ProductPaused ProductStatus = "paused"
)

type SaleStatus string

const (
	SaleCompleted  SaleStatus = "completed"
	SalePending    SaleStatus = "pending"
	SaleRefunded   SaleStatus = "refunded"
	SaleChargeback SaleStatus = "chargeback"
)

type TransactionType string

const (
	TransactionCredit     TransactionType = "credit"
	TransactionDebit      TransactionType = "debit"
	TransactionRefund     TransactionType = "refund"
	TransactionWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
)

type AffiliationStatus string

const (
	AffiliationPending  AffiliationStatus = "pending"
	AffiliationApproved AffiliationStatus = "approved"
	AffiliationRejected AffiliationStatus = "rejected"
)

type NotificationType string

const (
	NotificationAffiliationRequest  NotificationType = "affiliation_request"
	NotificationAffiliationApproved NotificationType = "affiliation_approved"
	NotificationAffiliationRejected NotificationType = "affiliation_rejected"
	NotificationNewSale             NotificationType = "new_sale"
	NotificationNewReferral         NotificationType = "new_referral"
)

type Profile struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Phone        string    `db:"phone"`
	CpfCnpj      string    `db:"cpf_cnpj"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Product struct {
	ID                    string          `db:"id"`
	OwnerID               string          `db:"owner_id"`
	Name                  string          `db:"name"`
	Description           string          `db:"description"`
	Price                 decimal.Decimal `db:"price"`
	Commission            decimal.Decimal `db:"commission"`
	Model                 ProductModel    `db:"model"`
	Status                ProductStatus   `db:"status"`
	ImageURL              string          `db:"image_url"`
	VideoURL              string          `db:"video_url"`
	WebhookURL            string          `db:"webhook_url"`
	GithubURL             string          `db:"github_url"`
	AutoApproveAffiliates bool            `db:"auto_approve_affiliates"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

type Sale struct {
	ID               string          `db:"id"`
	ProductID        string          `db:"product_id"`
	ProducerID       string          `db:"producer_id"`
	AffiliateID      string          `db:"affiliate_id"`
	CustomerEmail    string          `db:"customer_email"`
	CustomerName     string          `db:"customer_name"`
	Amount           decimal.Decimal `db:"amount"`
	CommissionAmount decimal.Decimal `db:"commission_amount"`
	Status           SaleStatus      `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
}

type Transaction struct {
	ID          string            `db:"id"`
	UserID      string            `db:"user_id"`
	SaleID      string            `db:"sale_id"`
	Type        TransactionType   `db:"type"`
	Description string            `db:"description"`
	Amount      decimal.Decimal   `db:"amount"`
	Status      TransactionStatus `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
}

type Affiliation struct {
	ID           string            `db:"id"`
	UserID       string            `db:"user_id"`
	ProductID    string            `db:"product_id"`
	Status       AffiliationStatus `db:"status"`
	ReferralCode string            `db:"referral_code"`
	CreatedAt    time.Time         `db:"created_at"`
}

type Notification struct {
	ID        string            `db:"id"`
	UserID    string            `db:"user_id"`
	Type      NotificationType  `db:"type"`
	Title     string            `db:"title"`
	Message   string            `db:"message"`
	Data      map[string]string `db:"data"`
	Read      bool              `db:"read"`
	CreatedAt time.Time         `db:"created_at"`
}

// Metrics is a derived projection over a user's sales, transactions and
// products. It is recomputed on every read and never persisted.
type Metrics struct {
	MRR              decimal.Decimal
	TotalRevenue     decimal.Decimal
	AvailableBalance decimal.Decimal
	PendingBalance   decimal.Decimal
	ActiveClients    int
	ChurnRate        float64
	TotalWithdrawn   decimal.Decimal
	LTV              decimal.Decimal
}
