package rules

// Built-in term tables. Order matters: within a rule the first term found wins
// and decides which term is reported.

// Blacklist holds sender fragments that always mean Promotion
var Blacklist = []string{
	"otter.ai", "everyday rewards", "telstra", "gumtree", "prosple", "academia",
	"13cabs", "flybuys", "doordash", "promotions@", "no-reply@", "unsubscribe@",
	"noreply@", "notifications@", "newsletter@", "marketing@", "bandmix",
	"advertisement", "promotion", "discount", "sale", "off", "coupon",
}

var securityTerms = []string{
	"security", "verification code", "login", "password", "bigfamily",
	"account", "confirm", "authenticate", "secondary verification", "2fa",
	"identity verification", "secure", "authentication", "alert", "warning", "suspicious",
}

var opportunityTerms = []string{
	"job", "career", "opportunity", "position", "interview", "hire", "recruitment",
	"application", "resume", "offer", "employment", "hiring",
	"talent", "apply", "candidate", "job opening", "job opportunities", "career development",
}

var workTerms = []string{
	"urgent", "important", "action", "required", "please note",
	"deadline", "payment", "invoice", "contract", "project", "task",
	"meeting", "report", "work", "colleague", "team", "customer", "collaborate",
}

var personalTerms = []string{
	"personal", "friend", "family", "social", "invite", "invitation",
	"party", "celebration", "birthday", "wedding", "travel", "trip",
	"private", "tour", "vacation", "holiday",
}

var updateTerms = []string{
	"update", "upgrade", "new version", "patch", "version", "release",
	"improvement", "enhancement", "system", "software", "app", "application",
	"changelog", "change log", "new feature", "feature",
}

var transactionTerms = []string{
	"transaction", "receipt", "payment", "order", "purchase",
	"bill", "invoice", "statement", "bought",
	"paid", "confirmation", "shipped", "delivery", "tracking",
}

var promotionTerms = []string{
	"promotion", "discount", "sale", "offer", "deal", "coupon", "code",
	"subscription", "newsletter", "marketing", "advertisement",
	"special price", "limited time", "flash sale", "full reduction", "new product", "activity", "special",
}
