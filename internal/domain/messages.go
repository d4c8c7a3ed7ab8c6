package domain

import "fmt"

type counterTemplate func(price, discountPercent float64) string

type phrasebook struct {
	accepted     string
	fullPrice    string
	belowMinimum string
	overDiscount string
	counters     []counterTemplate
}

var phrasebooks = map[Kind]phrasebook{
	KindProduct: {
		accepted:     "Great! We have a deal!",
		fullPrice:    "Please use the regular price if you're willing to pay full price.",
		belowMinimum: "I'm sorry, but %.2f is too low. The minimum price is %.2f",
		overDiscount: "That's too low. The maximum discount we can offer is %.0f%%",
		counters: []counterTemplate{
			func(price, discount float64) string {
				return fmt.Sprintf("How about %.2f? That's a %.1f%% discount.", price, discount)
			},
			func(price, _ float64) string {
				return fmt.Sprintf("I can offer it for %.2f. That's quite a good deal!", price)
			},
			func(price, _ float64) string {
				return fmt.Sprintf("Let's meet in the middle at %.2f?", price)
			},
			func(price, _ float64) string {
				return fmt.Sprintf("I can go down to %.2f. What do you think?", price)
			},
		},
	},
	KindDelivery: {
		accepted:     "Great! We'll deliver for that price!",
		fullPrice:    "Please use the standard delivery fee if you're willing to pay the full amount.",
		belowMinimum: "I'm sorry, but $%.2f is too low for the delivery distance. The minimum fee is $%.2f",
		overDiscount: "That's too low. The maximum discount we can offer on delivery is %.0f%%",
		counters: []counterTemplate{
			func(price, discount float64) string {
				return fmt.Sprintf("I can do the delivery for $%.2f. That's a %.1f%% discount!", price, discount)
			},
			func(price, _ float64) string {
				return fmt.Sprintf("How about $%.2f? That's quite reasonable for the distance.", price)
			},
			func(price, _ float64) string {
				return fmt.Sprintf("I can offer delivery at $%.2f. What do you think?", price)
			},
			func(price, _ float64) string {
				return fmt.Sprintf("Let's settle at $%.2f for delivery?", price)
			},
		},
	},
}

func phrasesFor(kind Kind) phrasebook {
	if book, ok := phrasebooks[kind]; ok {
		return book
	}

	return phrasebooks[KindProduct]
}

func counterMessage(kind Kind, bounds Bounds, counter float64, round int) string {
	templates := phrasesFor(kind).counters
	discountPercent := bounds.Discount(counter) * 100
	idx := round % len(templates)
	if idx < 0 {
		idx += len(templates)
	}

	return templates[idx](counter, discountPercent)
}

func rejectMessage(kind Kind, reason RejectReason, bounds Bounds, offer float64) string {
	book := phrasesFor(kind)
	switch reason {
	case RejectFullPrice:
		return book.fullPrice
	case RejectBelowMinimum:
		return fmt.Sprintf(book.belowMinimum, offer, bounds.Min)
	case RejectExceedsMaxDiscount:
		return fmt.Sprintf(book.overDiscount, bounds.MaxDiscount*100)
	default:
		return string(reason)
	}
}

func acceptMessage(kind Kind) string {
	return phrasesFor(kind).accepted
}
