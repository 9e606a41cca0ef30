// Package intent provides keyword-based intent detection for support queries and
// the rule-based classifier that shares the same keyword taxonomy.
package intent

import "github.com/supportdesk/hub/internal/models"

// Intent is a coarse classification of the need expressed in a query, used to
// boost topically relevant articles independent of lexical or embedding overlap.
type Intent string

// Known intents.
const (
	IntentRefund   Intent = "refund"
	IntentShipping Intent = "shipping"
	IntentBilling  Intent = "billing"
	IntentProduct  Intent = "product"
)

// rule holds everything the taxonomy knows about one intent: the trigger phrases
// that detect it in a query, the content terms that qualify an article for its
// boost, the boost weight, and the ticket category it implies. One table drives
// both the detector and the rule classifier so the two cannot drift.
type rule struct {
	triggers     []string
	contentTerms []string
	boost        float64
	category     models.Category
}

// detectionOrder fixes both the iteration order for detection (deterministic
// output) and the precedence for classification (first matching intent wins).
var detectionOrder = []Intent{IntentRefund, IntentShipping, IntentBilling, IntentProduct}

var taxonomy = map[Intent]rule{
	IntentRefund: {
		triggers: []string{
			"refund", "return", "replacement", "exchange", "damaged",
			"broken", "defective", "replace", "wrong item",
		},
		contentTerms: []string{"refund", "return", "replace", "exchange", "damaged"},
		boost:        0.30,
		category:     models.CategoryProduct,
	},
	IntentShipping: {
		triggers: []string{
			"delivery", "delayed", "delay", "not received", "shipped",
			"courier", "tracking", "dispatch", "order delay",
		},
		contentTerms: []string{"delivery", "tracking", "delay", "dispatched", "order status"},
		boost:        0.35,
		category:     models.CategoryShipping,
	},
	IntentBilling: {
		triggers: []string{
			"payment", "invoice", "card", "failed", "charged",
			"chargeback", "transaction",
		},
		contentTerms: []string{"payment", "billing", "card", "charge", "invoice"},
		boost:        0.25,
		category:     models.CategoryBilling,
	},
	IntentProduct: {
		triggers: []string{
			"size", "color", "feature", "quality", "stock",
			"availability", "out of stock",
		},
		contentTerms: []string{"product", "size", "color", "quality", "stock"},
		boost:        0.15,
		category:     models.CategoryProduct,
	},
}
