package info

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

type attributeRow struct {
	bun.BaseModel `bun:"table:restaurant_attributes,alias:ra"`

	Field string `bun:"attribute_field,pk"`
	Value string `bun:"attribute_value,notnull"`
}

type menuItemRow struct {
	bun.BaseModel `bun:"table:menu,alias:m"`

	Name        string  `bun:"item_name,pk"`
	Description string  `bun:"description,notnull"`
	Price       float64 `bun:"price,notnull"`
	DietaryTags string  `bun:"dietary_tags"`
}

type feedbackRow struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	ID            int64     `bun:"id,pk,autoincrement"`
	CustomerName  string    `bun:"customer_name,notnull"`
	CustomerEmail string    `bun:"customer_email,notnull"`
	Message       string    `bun:"message,notnull"`
	Responded     bool      `bun:"responded,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

// Service serves the free-text restaurant lookups: details, menu, and
// feedback intake.
type Service struct {
	db *bun.DB
}

var _ contractx.InfoService = (*Service)(nil)

func New(db *bun.DB) *Service {
	return &Service{db: db}
}

func (s *Service) RestaurantDetails(ctx context.Context) ([]contractx.Attribute, error) {
	var rows []attributeRow
	if err := s.db.NewSelect().Model(&rows).Order("attribute_field ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: restaurant details: %v", contractx.ErrStore, err)
	}

	out := make([]contractx.Attribute, 0, len(rows))
	for _, row := range rows {
		out = append(out, contractx.Attribute{Field: row.Field, Value: row.Value})
	}
	return out, nil
}

func (s *Service) Menu(ctx context.Context) ([]contractx.MenuItem, error) {
	var rows []menuItemRow
	if err := s.db.NewSelect().Model(&rows).Order("item_name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: menu: %v", contractx.ErrStore, err)
	}

	out := make([]contractx.MenuItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, contractx.MenuItem{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			DietaryTags: row.DietaryTags,
		})
	}
	return out, nil
}

func (s *Service) SubmitFeedback(ctx context.Context, name, email, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("feedback message is empty")
	}

	row := &feedbackRow{
		CustomerName:  name,
		CustomerEmail: email,
		Message:       message,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: submit feedback: %v", contractx.ErrStore, err)
	}
	return nil
}

// CreateSchema creates the info tables when absent.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*attributeRow)(nil),
		(*menuItemRow)(nil),
		(*feedbackRow)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: create info schema: %v", contractx.ErrStore, err)
		}
	}
	return nil
}
