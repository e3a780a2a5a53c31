// Package menu defines the core domain entities for the menu read API.
package menu

import "time"

// SchemaVariant tells which document layout a business uses. Older
// deployments store a single flat menu under businesses/{id}/menu while
// newer ones keep multiple menus under businesses/{id}/menus.
type SchemaVariant string

const (
	SchemaLegacy    SchemaVariant = "legacy"
	SchemaMultiMenu SchemaVariant = "multi-menu"
)

type BusinessInfo struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	LogoURL     string            `json:"logoUrl,omitempty"`
	CoverURL    string            `json:"coverUrl,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	WhatsApp    string            `json:"whatsapp,omitempty"`
	Address     string            `json:"address,omitempty"`
	Schedule    map[string]string `json:"schedule,omitempty"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
}

type MenuSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	Active      bool       `json:"active"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// CategorySkeleton is a category without its items, used by the lazy
// loading path to render headers before any item fetch happens.
type CategorySkeleton struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
	IsHidden    bool   `json:"isHidden"`
}

type Category struct {
	CategorySkeleton
	Items []*Item `json:"items"`
}

// Item stock semantics: Stock only means anything while TrackStock is
// true. Untracked items are always purchasable whatever Stock holds,
// and a tracked item with nil Stock is never depleted.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images,omitempty"`
	IsAvailable bool     `json:"isAvailable"`
	IsFeatured  bool     `json:"isFeatured"`
	IsHidden    bool     `json:"isHidden"`
	TrackStock  bool     `json:"trackStock"`
	Stock       *int     `json:"stock,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	MenuID      string   `json:"menuId,omitempty"`
}

type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Images      []string   `json:"images"`
	Badges      []string   `json:"badges"`
	URL         string     `json:"url,omitempty"`
	URLText     string     `json:"urlText,omitempty"`
	IsActive    bool       `json:"isActive"`
	IsFeatured  bool       `json:"isFeatured"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// FullMenu is the resolved menu for a business regardless of schema
// variant. Menu is nil on the legacy layout where no menu document
// exists, only categories.
type FullMenu struct {
	Schema     SchemaVariant `json:"schema"`
	Menu       *MenuSummary  `json:"menu,omitempty"`
	Categories []*Category   `json:"categories"`
}

// StockStatus levels for an item, derived from Stock and IsAvailable.
type StockStatus string

const (
	StockUnlimited  StockStatus = "unlimited"
	StockInStock    StockStatus = "in_stock"
	StockLowStock   StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// StockValidation is the outcome of checking one requested quantity
// against an item. It is a result, not an error.
type StockValidation struct {
	Valid     bool        `json:"valid"`
	Status    StockStatus `json:"status"`
	Available int         `json:"available"`
	Requested int         `json:"requested"`
	Reason    string      `json:"reason,omitempty"`
}

type CartLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type CartValidation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
