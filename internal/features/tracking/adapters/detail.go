package adapter

import (
	"strings"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
)

// gatePassNote is the advisory attached when a manager phone is published.
const gatePassNote = "Call for gate pass"

// spanText returns the trimmed text of the span with the given id, or an
// empty string when the element is absent. Detail extraction never fails
// wholesale over one missing field.
func spanText(doc *goquery.Document, id string) string {
	return strings.TrimSpace(doc.Find("span#" + id).First().Text())
}

// mapDeliveryStatus reduces the portal's status text to the closed status
// set. Keywords are matched against uppercased tokens in priority order;
// unknown text falls back to its first token.
func mapDeliveryStatus(raw string) string {
	up := strings.ToUpper(strings.TrimSpace(raw))
	if up == "" {
		return ""
	}

	tokens := strings.Fields(up)
	has := func(want string) bool {
		for _, tok := range tokens {
			if tok == want {
				return true
			}
		}
		return false
	}
	contains := func(want string) bool {
		for _, tok := range tokens {
			if strings.Contains(tok, want) {
				return true
			}
		}
		return false
	}

	switch {
	case has(domain.StatusDelivered):
		return domain.StatusDelivered
	case has(domain.StatusUndelivered):
		return domain.StatusUndelivered
	case has(domain.StatusPending):
		return domain.StatusPending
	case has(domain.StatusReturn) || has("RTD"):
		return domain.StatusReturn
	case contains("TRANSIT"):
		return domain.StatusInTransit
	default:
		return tokens[0]
	}
}

// parseFromCenter splits the origin-center span into name and address. The
// portal formats it as "NAME - ADDRESS"; without the separator the whole
// text serves as both.
func parseFromCenter(text string) domain.Center {
	if text == "" {
		return domain.Center{}
	}

	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return domain.Center{
			Name:    strings.ToUpper(strings.TrimSpace(parts[0])),
			Address: strings.TrimSpace(parts[1]),
		}
	}
	return domain.Center{
		Name:    strings.ToUpper(text),
		Address: text,
	}
}

// parseLastCenter extracts the last-center panel: name, phone, the contact
// line split on "Mobile:" and the manager line split on "Ph:".
func parseLastCenter(doc *goquery.Document) domain.LastCenter {
	last := domain.LastCenter{
		Name:  spanText(doc, "lastCenterName"),
		Phone: spanText(doc, "lastCenterph"),
	}

	contactText := spanText(doc, "lastCenterContact")
	if strings.Contains(contactText, "Mobile:") {
		parts := strings.SplitN(contactText, "Mobile:", 2)
		last.Contact.Name = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(parts[0]), ","))
		last.Contact.Mobile = strings.TrimSpace(parts[1])
	} else {
		last.Contact.Name = contactText
	}

	managerText := spanText(doc, "lastCenterMgr")
	if strings.Contains(managerText, "Ph:") {
		phone := strings.TrimSpace(strings.SplitN(managerText, "Ph:", 2)[1])
		last.Manager.Phone = phone
		if phone != "" {
			last.Manager.Note = gatePassNote
		}
	} else if strings.Contains(managerText, "Ph") {
		last.Manager.Note = gatePassNote
	}

	return last
}
