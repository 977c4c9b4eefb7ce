package seeds

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/EstateHub/marketplace-backend/internal/auth"
	"github.com/EstateHub/marketplace-backend/internal/notifications"
	"github.com/EstateHub/marketplace-backend/internal/rfq"
	"github.com/EstateHub/marketplace-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:embed data/demo.json
var demoJSON []byte

type userFixture struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	AccountType auth.AccountType `json:"account_type"`
}

type notificationFixture struct {
	Email string `json:"email"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link"`
}

type itemFixture struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

type rfqFixture struct {
	RequesterEmail string        `json:"requester_email"`
	ProviderEmail  string        `json:"provider_email"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	BudgetCents    *int64        `json:"budget_cents"`
	Attachments    []string      `json:"attachments"`
	Items          []itemFixture `json:"items"`
}

// Fixtures is the demo data set loaded by SeedAll.
type Fixtures struct {
	Users         []userFixture         `json:"users"`
	Notifications []notificationFixture `json:"notifications"`
	RFQs          []rfqFixture          `json:"rfqs"`
}

// LoadFixtures parses the embedded demo data, normalizes every email the way
// sign-in does and checks the cross references.
func LoadFixtures() (*Fixtures, error) {
	var f Fixtures
	if err := json.Unmarshal(demoJSON, &f); err != nil {
		return nil, fmt.Errorf("failed to parse demo.json: %w", err)
	}

	known := make(map[string]bool, len(f.Users))
	for i := range f.Users {
		u := &f.Users[i]
		email, ok := auth.NormalizeEmail(u.Email)
		if !ok || u.Password == "" {
			return nil, fmt.Errorf("user %q: valid email and password are required", u.Name)
		}
		if !u.AccountType.Valid() {
			return nil, fmt.Errorf("user %s: unknown account type %q", email, u.AccountType)
		}
		u.Email = email
		known[email] = true
	}

	var ok bool
	for i := range f.Notifications {
		n := &f.Notifications[i]
		if n.Email, ok = auth.NormalizeEmail(n.Email); !ok || !known[n.Email] {
			return nil, fmt.Errorf("notification %q: unknown user", n.Title)
		}
	}
	for i := range f.RFQs {
		r := &f.RFQs[i]
		r.RequesterEmail, _ = auth.NormalizeEmail(r.RequesterEmail)
		r.ProviderEmail, _ = auth.NormalizeEmail(r.ProviderEmail)
		if !known[r.RequesterEmail] || !known[r.ProviderEmail] {
			return nil, fmt.Errorf("rfq %q: unknown requester or provider", r.Title)
		}
	}
	return &f, nil
}

// SeedAll inserts the demo users, notifications and RFQs in one transaction.
// Data owned by users that already exist is skipped, so reruns are safe.
func SeedAll(conn *gorm.DB) error {
	f, err := LoadFixtures()
	if err != nil {
		return err
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		ids, created, err := seedUsers(tx, f.Users)
		if err != nil {
			return err
		}
		if err := seedNotifications(tx, f.Notifications, ids, created); err != nil {
			return err
		}
		return seedRFQs(tx, f.RFQs, ids, created)
	})
}

func seedUsers(tx *gorm.DB, users []userFixture) (ids map[string]string, created map[string]bool, err error) {
	ids = make(map[string]string, len(users))
	created = make(map[string]bool, len(users))

	for _, u := range users {
		email := u.Email

		var existing auth.User
		err := tx.First(&existing, "email = ?", email).Error
		if err == nil {
			log.Printf("⚠️ User exists, skipping: %s", email)
			ids[email] = existing.ID
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("DB error on user %s: %w", email, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, fmt.Errorf("hash password for %s: %w", email, err)
		}

		user := auth.User{
			ID:             utils.GenerateUUID(),
			Name:           u.Name,
			Email:          email,
			HashedPassword: string(hashed),
			Role:           "user",
			AccountType:    u.AccountType,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create user %s: %w", email, err)
		}
		ids[email] = user.ID
		created[email] = true
	}

	log.Printf("✅ Seeded %d users", len(created))
	return ids, created, nil
}

func seedNotifications(tx *gorm.DB, items []notificationFixture, ids map[string]string, created map[string]bool) error {
	var n int
	for _, item := range items {
		email := item.Email
		if !created[email] {
			continue
		}
		row := notifications.Notification{
			UserID: ids[email],
			Title:  item.Title,
			Body:   item.Body,
			Link:   item.Link,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create notification %q: %w", item.Title, err)
		}
		n++
	}
	log.Printf("✅ Seeded %d notifications", n)
	return nil
}

func seedRFQs(tx *gorm.DB, items []rfqFixture, ids map[string]string, created map[string]bool) error {
	var n int
	for _, item := range items {
		requester := item.RequesterEmail
		if !created[requester] {
			continue
		}

		req := rfq.Request{
			RequesterID: ids[requester],
			ProviderID:  ids[item.ProviderEmail],
			Title:       item.Title,
			Description: item.Description,
			Status:      rfq.StatusOpen,
			BudgetCents: item.BudgetCents,
			Attachments: item.Attachments,
		}
		for i, it := range item.Items {
			req.Items = append(req.Items, rfq.Item{
				Name:      it.Name,
				Quantity:  it.Quantity,
				Unit:      it.Unit,
				SortOrder: i,
			})
		}
		if err := tx.Create(&req).Error; err != nil {
			return fmt.Errorf("failed to create rfq %q: %w", item.Title, err)
		}
		n++
	}
	log.Printf("✅ Seeded %d RFQs", n)
	return nil
}
