package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"rupees": Rupees,
}).ParseFS(templateFS, "templates/*.html"))

// Rupees formats an amount the way the storefront prints prices.
func Rupees(amount int64) string {
	return fmt.Sprintf("Rs %d/-", amount)
}

type OrderLine struct {
	Name     string
	Size     string
	Quantity int
	Subtotal int64
}

// OrderSummary is everything the order emails show.
type OrderSummary struct {
	OrderID           string
	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
	CustomerName      string
	Email             string
	Phone             string
	Address           string
	Notes             string
	Lines             []OrderLine
	Subtotal          int64
	DeliveryFee       int64
	Total             int64
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// CustomerReceipt builds the confirmation sent to the customer.
func CustomerReceipt(s OrderSummary) (*Message, error) {
	html, err := render("customer.html", s)
	if err != nil {
		return nil, err
	}
	return &Message{
		Recipient: RecipientCustomer,
		To:        s.Email,
		Subject:   fmt.Sprintf("Order Confirmation #%s - %s", s.OrderID, s.RestaurantName),
		HTML:      html,
	}, nil
}

// RestaurantAlert builds the new-order alert for the kitchen with the
// payment proof attached.
func RestaurantAlert(s OrderSummary, to string, proof Attachment) (*Message, error) {
	html, err := render("restaurant.html", s)
	if err != nil {
		return nil, err
	}
	return &Message{
		Recipient:   RecipientRestaurant,
		To:          to,
		Subject:     fmt.Sprintf("NEW ORDER #%s - Rs %d", s.OrderID, s.Total),
		HTML:        html,
		Attachments: []Attachment{proof},
	}, nil
}
