package domain

// DefaultDeliveryZoneThreshold is the serviceability cutoff used when no
// threshold is configured.
const DefaultDeliveryZoneThreshold = 0.80

// Aggregate groups rows by pincode, computes each group's delivery-zone
// fraction, and partitions the verdicts at the threshold. The optional
// filterState restricts aggregation to rows of one region. One verdict is
// produced per pincode, in first-seen order; the first-seen state
// association wins.
func Aggregate(rows []PincodeRow, filterState string, threshold float64) (serviceable, unserviceable []DeliveryZoneVerdict) {
	type group struct {
		total    int
		delivery int
		state    string
	}

	groups := make(map[string]*group)
	var order []string

	for _, row := range rows {
		if filterState != "" && row.State != filterState {
			continue
		}

		g, ok := groups[row.PinCode]
		if !ok {
			g = &group{state: row.State}
			groups[row.PinCode] = g
			order = append(order, row.PinCode)
		}
		g.total++
		if row.ZoneType == ZoneTypeDelivery {
			g.delivery++
		}
	}

	for _, pin := range order {
		g := groups[pin]
		fraction := float64(g.delivery) / float64(g.total)

		verdict := DeliveryZoneVerdict{
			PinCode:              pin,
			DeliveryZoneFraction: fraction,
			State:                g.state,
		}

		if fraction >= threshold {
			verdict.Classification = ClassificationServiceable
			serviceable = append(serviceable, verdict)
		} else {
			verdict.Classification = ClassificationUnserviceable
			unserviceable = append(unserviceable, verdict)
		}
	}

	return serviceable, unserviceable
}
