package catalog

// Package catalog holds the product model and the pure variant, SKU and pricing logic.

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

type VariantType string

const (
	VariantTypeColor   VariantType = "color"
	VariantTypeStorage VariantType = "storage"
	VariantTypeSize    VariantType = "size"
	VariantTypeOther   VariantType = "other"
)

type PaymentType string

const (
	PaymentTypeMercadoPago  PaymentType = "mercadopago"
	PaymentTypeCreditCard   PaymentType = "credit_card"
	PaymentTypeDebitCard    PaymentType = "debit_card"
	PaymentTypeBankTransfer PaymentType = "bank_transfer"
	PaymentTypeCash         PaymentType = "cash"
)

type ReputationLevel string

const (
	ReputationRed        ReputationLevel = "red"
	ReputationOrange     ReputationLevel = "orange"
	ReputationYellow     ReputationLevel = "yellow"
	ReputationLightGreen ReputationLevel = "light_green"
	ReputationGreen      ReputationLevel = "green"
)

// Product is a full catalog record as stored in the data file.
type Product struct {
	ID                string              `json:"id" yaml:"id"`
	Slug              string              `json:"slug" yaml:"slug"`
	Title             string              `json:"title" yaml:"title"`
	Description       string              `json:"description" yaml:"description"`
	Price             Price               `json:"price" yaml:"price"`
	Images            []string            `json:"images" yaml:"images"`
	Condition         Condition           `json:"condition" yaml:"condition"`
	AvailableQuantity int                 `json:"availableQuantity" yaml:"availableQuantity"`
	SoldQuantity      int                 `json:"soldQuantity" yaml:"soldQuantity"`
	Seller            Seller              `json:"seller" yaml:"seller"`
	Shipping          Shipping            `json:"shipping" yaml:"shipping"`
	Attributes        []AttributeCategory `json:"attributes" yaml:"attributes"`
	Rating            Rating              `json:"rating" yaml:"rating"`
	PaymentMethods    []PaymentMethod     `json:"paymentMethods" yaml:"paymentMethods"`
	Warranty          string              `json:"warranty" yaml:"warranty"`
	Category          Category            `json:"category" yaml:"category"`
	Variants          []VariantGroup      `json:"variants,omitempty" yaml:"variants,omitempty"`
	SKUs              []SKU               `json:"skus,omitempty" yaml:"skus,omitempty"`
	Questions         []Question          `json:"questions,omitempty" yaml:"questions,omitempty"`
	Reviews           []Review            `json:"reviews,omitempty" yaml:"reviews,omitempty"`
}

// ProductListItem is the reduced shape returned by the listing endpoint.
type ProductListItem struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Price        Price     `json:"price"`
	Thumbnail    string    `json:"thumbnail"`
	Condition    Condition `json:"condition"`
	FreeShipping bool      `json:"freeShipping"`
}

// ListItem maps a product to its listing shape. The thumbnail is the first image.
func (p Product) ListItem() ProductListItem {
	thumbnail := ""
	if len(p.Images) > 0 {
		thumbnail = p.Images[0]
	}
	return ProductListItem{
		ID:           p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		Price:        p.Price,
		Thumbnail:    thumbnail,
		Condition:    p.Condition,
		FreeShipping: p.Shipping.FreeShipping,
	}
}

type Price struct {
	Amount         float64  `json:"amount" yaml:"amount"`
	Currency       string   `json:"currency" yaml:"currency"`
	OriginalAmount *float64 `json:"originalAmount,omitempty" yaml:"originalAmount,omitempty"`
	Discount       *float64 `json:"discount,omitempty" yaml:"discount,omitempty"`
}

type VariantGroup struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Type     VariantType     `json:"type" yaml:"type"`
	Options  []VariantOption `json:"options" yaml:"options"`
	Required bool            `json:"required" yaml:"required"`
}

// Option returns the option with the given id, or nil.
func (g VariantGroup) Option(id string) *VariantOption {
	for i := range g.Options {
		if g.Options[i].ID == id {
			return &g.Options[i]
		}
	}
	return nil
}

type VariantOption struct {
	ID     string   `json:"id" yaml:"id"`
	Value  string   `json:"value" yaml:"value"`
	Label  string   `json:"label" yaml:"label"`
	Hex    string   `json:"hex,omitempty" yaml:"hex,omitempty"`
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// SKU is one sellable combination of variant options.
type SKU struct {
	ID                string            `json:"id" yaml:"id"`
	Combination       map[string]string `json:"combination" yaml:"combination"`
	AvailableQuantity int               `json:"availableQuantity" yaml:"availableQuantity"`
	PriceModifier     float64           `json:"priceModifier" yaml:"priceModifier"`
	Images            []string          `json:"images,omitempty" yaml:"images,omitempty"`
}

type Question struct {
	ID         string `json:"id" yaml:"id"`
	Question   string `json:"question" yaml:"question"`
	Answer     string `json:"answer,omitempty" yaml:"answer,omitempty"`
	AskedBy    string `json:"askedBy" yaml:"askedBy"`
	AnsweredBy string `json:"answeredBy,omitempty" yaml:"answeredBy,omitempty"`
	AskedAt    string `json:"askedAt" yaml:"askedAt"`
	AnsweredAt string `json:"answeredAt,omitempty" yaml:"answeredAt,omitempty"`
}

type ReviewCharacteristic struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

type Review struct {
	ID              string                 `json:"id" yaml:"id"`
	Rating          int                    `json:"rating" yaml:"rating"`
	Title           string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Comment         string                 `json:"comment" yaml:"comment"`
	UserName        string                 `json:"userName" yaml:"userName"`
	UserAvatar      string                 `json:"userAvatar,omitempty" yaml:"userAvatar,omitempty"`
	Date            string                 `json:"date" yaml:"date"`
	Likes           int                    `json:"likes" yaml:"likes"`
	Images          []string               `json:"images,omitempty" yaml:"images,omitempty"`
	Characteristics []ReviewCharacteristic `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`
}

type Seller struct {
	ID               string           `json:"id" yaml:"id"`
	Nickname         string           `json:"nickname" yaml:"nickname"`
	AvatarURL        string           `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Reputation       SellerReputation `json:"reputation" yaml:"reputation"`
	RegistrationDate string           `json:"registrationDate" yaml:"registrationDate"`
	TotalSales       int              `json:"totalSales" yaml:"totalSales"`
}

type SellerReputation struct {
	Level              ReputationLevel    `json:"level" yaml:"level"`
	PowerSellerStatus  bool               `json:"powerSellerStatus" yaml:"powerSellerStatus"`
	PositivePercentage float64            `json:"positivePercentage" yaml:"positivePercentage"`
	Transactions       SellerTransactions `json:"transactions" yaml:"transactions"`
	Metrics            SellerMetrics      `json:"metrics" yaml:"metrics"`
}

type SellerTransactions struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Canceled  int `json:"canceled" yaml:"canceled"`
}

type SellerMetrics struct {
	GoodService    bool `json:"goodService" yaml:"goodService"`
	OnTimeDelivery bool `json:"onTimeDelivery" yaml:"onTimeDelivery"`
}

type Shipping struct {
	FreeShipping      bool     `json:"freeShipping" yaml:"freeShipping"`
	Mode              string   `json:"mode" yaml:"mode"`
	Methods           []string `json:"methods" yaml:"methods"`
	EstimatedDelivery string   `json:"estimatedDelivery,omitempty" yaml:"estimatedDelivery,omitempty"`
}

type AttributeValue struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// AttributeCategory groups technical attributes, e.g. "General" or "Memory".
type AttributeCategory struct {
	Name   string           `json:"name" yaml:"name"`
	Values []AttributeValue `json:"values" yaml:"values"`
}

type Rating struct {
	Average float64 `json:"average" yaml:"average"`
	Total   int     `json:"total" yaml:"total"`
}

type PaymentMethod struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Type         PaymentType   `json:"type" yaml:"type"`
	Installments []Installment `json:"installments,omitempty" yaml:"installments,omitempty"`
}

type Installment struct {
	Quantity int     `json:"quantity" yaml:"quantity"`
	Amount   float64 `json:"amount" yaml:"amount"`
	Rate     float64 `json:"rate" yaml:"rate"`
}

type Category struct {
	ID   string   `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
	Path []string `json:"path" yaml:"path"`
}
