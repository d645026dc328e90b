package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"
)

// ExtractPriceListFromEmail pulls a price-list table out of a raw RFC 5322
// message: the first xlsx/xls attachment wins, otherwise an inline HTML
// table. Suppliers send their lists both ways.
func ExtractPriceListFromEmail(raw []byte) ([][]string, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}

	for _, att := range env.Attachments {
		name := strings.ToLower(strings.TrimSpace(att.FileName))
		if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
			table, err := LoadWorkbookTable(att.Content)
			if err != nil {
				return nil, "", fmt.Errorf("attachment %s: %w", att.FileName, err)
			}
			return table, att.FileName, nil
		}
	}

	if env.HTML != "" {
		table, err := ParseHTMLTable(env.HTML)
		if err == nil {
			return table, env.GetHeader("Subject"), nil
		}
	}

	return nil, "", fmt.Errorf("no price list found in message")
}
