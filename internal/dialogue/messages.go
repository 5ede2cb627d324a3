package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"takeorder/internal/menu"
)

// Bot responses. Kept in one place so the wording stays consistent
// across handlers.
const (
	msgGreeting          = "Hello! Welcome to our restaurant. How can I help you today? You can say 'Menu' or 'Order Now'."
	msgExampleOrder      = "For example, you can say 'Add 2 Pizza' or 'I would like to add 2 Pizza'."
	msgAskForMore        = "Is there anything else you would like to order? (Type 'no' to finalize your order)"
	msgSpecifyItems      = "Please specify the items and their quantities."
	msgOrderComplete     = "Your final order is:"
	msgTrackOrder        = "You can track your order using the tracking number:"
	msgTrackConfirmation = "Would you like to track your order? (Type 'yes' to track or 'no' to finalize your order)"
	msgRequestTracking   = "Please provide your tracking number."
	msgTrackingNotFound  = "Sorry, I couldn't find that tracking number."
	msgTrackingFailed    = "Failed to retrieve the order. Please try again later."
	msgFinalizeFailed    = "Failed to finalize the order. Please try again later."
	msgAlreadyFinalized  = "Your order has already been finalized."
	msgNeedFinalize      = "You need to finalize your order before tracking it."
	msgItemNotFound      = "Item not found in the order."
	msgYesOrNo           = "Please type 'yes' or 'no'."
	msgClosing           = "Thank you for your order! If you need any more assistance, feel free to ask."
	msgThanks            = "Thanks for coming here! If you need anything else, feel free to ask."
	msgError             = "I didn't understand that. Please type 'Menu' or 'Order Now'."
)

// formatMoney renders a price without trailing zeros, so whole-dollar
// totals print as "$27" and fractional ones as "$7.5".
func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func menuLine(catalog *menu.Catalog) string {
	entries := make([]string, 0, len(catalog.Items()))
	for _, item := range catalog.Items() {
		entries = append(entries, fmt.Sprintf("%s - %s", item.Name, formatMoney(item.Price)))
	}
	return fmt.Sprintf("Here is our menu: %s.", strings.Join(entries, ", "))
}

func notOnMenuLine(tokens []string) string {
	return fmt.Sprintf("Sorry, we don't have these on our menu: %s. Please choose from our menu.", strings.Join(tokens, ", "))
}
