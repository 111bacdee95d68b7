package kiosk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voiceorder/agent/internal/menu"
	"voiceorder/agent/internal/protocol"
)

const receiptRule = "---------------------------"

// FormatReceipt renders a plain-text receipt for a finalized order.
func FormatReceipt(restaurant string, lines []protocol.OrderLine, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s Order ---\n\n", restaurant)
	for _, l := range lines {
		fmt.Fprintf(&b, "%s (x%d) - $%s\n", l.Name, l.Quantity, menu.FormatPrice(menu.Cents(l.Price)*int64(l.Quantity)))
	}
	b.WriteString("\n" + receiptRule + "\n")
	fmt.Fprintf(&b, "Total: $%s\n", menu.FormatPrice(protocol.Total(lines)))
	b.WriteString(receiptRule + "\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", at.Format("1/2/2006, 3:04:05 PM"))
	return b.String()
}

// ReceiptFilename is <restaurant_slug>_order_<unix ms>.txt.
func ReceiptFilename(restaurant string, at time.Time) string {
	return fmt.Sprintf("%s_order_%d.txt", slug(restaurant), at.UnixMilli())
}

// WriteReceipt writes the receipt into dir and returns its path. Empty
// orders are not exported.
func WriteReceipt(dir, restaurant string, lines []protocol.OrderLine, at time.Time) (string, error) {
	if len(lines) == 0 {
		return "", fmt.Errorf("cannot export empty order")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ReceiptFilename(restaurant, at))
	if err := os.WriteFile(path, []byte(FormatReceipt(restaurant, lines, at)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// RenderOrder is the on-screen order list.
func RenderOrder(lines []protocol.OrderLine) string {
	if len(lines) == 0 {
		return "Order is empty.\nTotal: $0.00"
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s (x%d) - $%s\n", l.Name, l.Quantity, menu.FormatPrice(menu.Cents(l.Price)*int64(l.Quantity)))
	}
	fmt.Fprintf(&b, "Total: $%s", menu.FormatPrice(protocol.Total(lines)))
	return b.String()
}

func slug(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case r == '\'':
		default:
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
