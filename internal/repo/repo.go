// Package repo is the persistence layer over gorm.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

var ErrNotFound = errors.New("record not found")

// Client groups the per-table stores over one connection pool.
type Client struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Client {
	return &Client{DB: db}
}

func (c *Client) Subscriptions() *SubscriptionStore { return &SubscriptionStore{db: c.DB} }
func (c *Client) Notifications() *NotificationStore { return &NotificationStore{db: c.DB} }
func (c *Client) Profiles() *ProfileStore           { return &ProfileStore{db: c.DB} }
func (c *Client) Assignments() *AssignmentStore     { return &AssignmentStore{db: c.DB} }
func (c *Client) CheckIns() *CheckInStore           { return &CheckInStore{db: c.DB} }
func (c *Client) AbsenceLedger() *AbsenceStore      { return &AbsenceStore{db: c.DB} }

// Migrate creates or updates every table.
func (c *Client) Migrate(ctx context.Context) error {
	return c.DB.WithContext(ctx).AutoMigrate(schema.All()...)
}

func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// AssignmentView joins the two coach-assignment representations for
// recipient resolution.
type AssignmentView struct {
	*ProfileStore
	*AssignmentStore
}

func (c *Client) AssignmentView() AssignmentView {
	return AssignmentView{ProfileStore: c.Profiles(), AssignmentStore: c.Assignments()}
}
