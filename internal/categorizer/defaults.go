package categorizer

// providerCategories maps an extractor's provider identifier to its default
// category name.
var providerCategories = map[string]string{
	"amazon":        "Shopping",
	"doordash":      "Food Delivery",
	"uber_eats":     "Food Delivery",
	"uber":          "Rideshare",
	"venmo":         "Peer Payment",
	"receipt_photo": "Shopping",
}

// merchantPattern is one entry of the built-in substring table. Order
// matters: specific brand names sit above generic keywords, and the first
// match wins. Patterns are matched against normalized merchants, which
// carry no punctuation, so entries must not either.
type merchantPattern struct {
	pattern  string
	category string
}

var merchantPatterns = []merchantPattern{
	// Food Delivery
	{"doordash", "Food Delivery"},
	{"uber eats", "Food Delivery"},
	{"grubhub", "Food Delivery"},
	{"postmates", "Food Delivery"},
	{"instacart", "Food Delivery"},

	// Rideshare
	{"uber", "Rideshare"},
	{"lyft", "Rideshare"},

	// Shopping
	{"amazon", "Shopping"},
	{"walmart", "Shopping"},
	{"target", "Shopping"},
	{"costco", "Shopping"},
	{"best buy", "Shopping"},
	{"home depot", "Shopping"},
	{"lowes", "Shopping"},
	{"ikea", "Shopping"},

	// Food & Dining
	{"starbucks", "Food & Dining"},
	{"mcdonald", "Food & Dining"},
	{"chipotle", "Food & Dining"},
	{"subway", "Food & Dining"},
	{"dunkin", "Food & Dining"},
	{"restaurant", "Food & Dining"},
	{"cafe", "Food & Dining"},
	{"coffee", "Food & Dining"},
	{"pizza", "Food & Dining"},
	{"burger", "Food & Dining"},
	{"taco", "Food & Dining"},
	{"sushi", "Food & Dining"},

	// Subscriptions / Entertainment
	{"netflix", "Subscriptions"},
	{"spotify", "Subscriptions"},
	{"hulu", "Subscriptions"},
	{"disney", "Subscriptions"},
	{"hbo", "Subscriptions"},
	{"apple music", "Subscriptions"},
	{"youtube premium", "Subscriptions"},
	{"amc", "Entertainment"},
	{"regal", "Entertainment"},
	{"cinemark", "Entertainment"},
	{"movie", "Entertainment"},
	{"theater", "Entertainment"},
	{"concert", "Entertainment"},
	{"tickets", "Entertainment"},

	// Utilities
	{"electric", "Utilities"},
	{"water", "Utilities"},
	{"gas", "Utilities"},
	{"internet", "Utilities"},
	{"phone", "Utilities"},
	{"verizon", "Utilities"},
	{"att", "Utilities"},
	{"tmobile", "Utilities"},
	{"comcast", "Utilities"},
	{"spectrum", "Utilities"},

	// Transportation
	{"gas station", "Transportation"},
	{"shell", "Transportation"},
	{"chevron", "Transportation"},
	{"exxon", "Transportation"},
	{"bp", "Transportation"},
	{"parking", "Transportation"},

	// Healthcare
	{"pharmacy", "Healthcare"},
	{"cvs", "Healthcare"},
	{"walgreens", "Healthcare"},
	{"doctor", "Healthcare"},
	{"hospital", "Healthcare"},
	{"dental", "Healthcare"},
	{"medical", "Healthcare"},

	// Personal Care
	{"salon", "Personal Care"},
	{"barber", "Personal Care"},
	{"spa", "Personal Care"},
	{"gym", "Personal Care"},
	{"fitness", "Personal Care"},

	// Travel
	{"airline", "Travel"},
	{"hotel", "Travel"},
	{"airbnb", "Travel"},
	{"bookingcom", "Travel"},
	{"expedia", "Travel"},
	{"marriott", "Travel"},
	{"hilton", "Travel"},

	// Education
	{"university", "Education"},
	{"college", "Education"},
	{"school", "Education"},
	{"tuition", "Education"},
	{"textbook", "Education"},
	{"coursera", "Education"},
	{"udemy", "Education"},

	// Peer Payments
	{"venmo", "Peer Payment"},
	{"paypal", "Peer Payment"},
	{"zelle", "Peer Payment"},
	{"cash app", "Peer Payment"},
}

// defaultMerchantCategory returns the first table entry whose pattern is a
// substring of the normalized merchant.
func defaultMerchantCategory(merchantNormalized string) (string, bool) {
	for _, p := range merchantPatterns {
		if containsPattern(merchantNormalized, p.pattern) {
			return p.category, true
		}
	}
	return "", false
}

// defaultProviderCategory returns the default category name for a provider.
func defaultProviderCategory(provider string) (string, bool) {
	name, ok := providerCategories[provider]
	return name, ok
}
