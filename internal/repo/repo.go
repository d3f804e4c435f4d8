package repo

import (
	"github.com/marketsaas/marketsaas/internal/pg"
	affiliationrepo "github.com/marketsaas/marketsaas/internal/repo/affiliation-repo"
	notificationrepo "github.com/marketsaas/marketsaas/internal/repo/notification-repo"
	productrepo "github.com/marketsaas/marketsaas/internal/repo/product-repo"
	profilerepo "github.com/marketsaas/marketsaas/internal/repo/profile-repo"
	salerepo "github.com/marketsaas/marketsaas/internal/repo/sale-repo"
	transactionrepo "github.com/marketsaas/marketsaas/internal/repo/transaction-repo"
)

// Repositories holds one repository per entity, all sharing the same
// connection so the tx manager can bind them into a single transaction.
type Repositories struct {
	Profiles      *profilerepo.Repository
	Products      *productrepo.Repository
	Sales         *salerepo.Repository
	Transactions  *transactionrepo.Repository
	Affiliations  *affiliationrepo.Repository
	Notifications *notificationrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		Profiles:      profilerepo.New(conn),
		Products:      productrepo.New(conn),
		Sales:         salerepo.New(conn),
		Transactions:  transactionrepo.New(conn),
		Affiliations:  affiliationrepo.New(conn),
		Notifications: notificationrepo.New(conn),
	}
}
