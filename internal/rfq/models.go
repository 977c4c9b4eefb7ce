package rfq

import (
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusQuoted   Status = "quoted"
	StatusAccepted Status = "accepted"
	StatusClosed   Status = "closed"
)

// Request is a request for quotation sent by a business to a provider.
type Request struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   *uint          `gorm:"index" json:"project_id,omitempty"`
	RequesterID string         `gorm:"index;not null" json:"requester_id"`
	ProviderID  string         `gorm:"index" json:"provider_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Status      Status         `gorm:"default:'open'" json:"status"`
	BudgetCents *int64         `json:"budget_cents,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments"`
	Items       []Item         `gorm:"foreignKey:RequestID" json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Item struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestID uint   `gorm:"index;not null" json:"rfq_request_id"`
	Name      string `gorm:"not null" json:"name"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	SortOrder int    `json:"sort_order"`
}

func (Request) TableName() string { return "marketplace.rfq_requests" }
func (Item) TableName() string    { return "marketplace.rfq_items" }
