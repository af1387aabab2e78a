package prompt

import (
	"strings"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/utils"
)

// DefaultMaxBodyChars caps the body characters sent to the model
const DefaultMaxBodyChars = 7000

// Placeholders substituted into the template
const (
	PlaceholderFrom    = "{from_addr}"
	PlaceholderSubject = "{subject}"
	PlaceholderBody    = "{body}"
)

// Template is the classification instruction sent to the model
const Template = `
[System Command]
You are a smart email classification assistant. Please strictly complete a single main category judgment for the following email:
The category must strictly be selected from the following eight categories (no new categories, no plural form, no spaces, no case errors):

"Work"          - Directly related to current work/project (such as project emails, colleague collaboration, task assignment, etc.)
"Personal"      - Family/friend private letters or social network notifications, also including travel, tickets, etc. personal consumption
"Transaction"   - Orders, invoices, bills, express, payment, receipt, etc.
"Promotion"     - Merchant/platform promotions, advertisements, coupons, subscription push
"Security"      - Login verification code, account exception alarm, email confirmation/verification, security reminder, etc.
"Update"        - System or product function update, version release, function optimization, service change
"Opportunities" - Job opportunities, recruitment information, position invitation, interview notification, etc.
"LowPriority"   - Other low-priority notifications, general system emails, miscellaneous, or situations that cannot be categorized into any of the above

[Output Requirements]
- Only output and **only output** the following JSON format, no extra characters, explanations, line breaks, or comments!
- Format must be: {"category":"Category Name"}
- Category name must strictly be one of the above eight categories, otherwise it is considered invalid.

[Strict Classification Logic]
- If the sender is on the blacklist (such as: Otter.ai, Gumtree, Everyday Rewards, Telstra Team, Prosple, Academia, 13cabs, Flybuys, DoorDash, email addresses containing Promotions@, No-Reply@, Unsubscribe@, etc.), regardless of content, directly classify as {"category":"Promotion"}
- Emails from bigfamily are always {"category":"Security"}
- Bandmix defaults to Promotion, only select Personal if the dialog content is clearly private
- LinkedIn, new job post, gradconnect, seek, hays, etc. Job-related platforms, if they are clearly involved in interviews/invitations/positions, they are {"category":"Opportunities"}, otherwise they are Promotion
Special attention should be paid to LinkedIn, unless it is really receiving opportunities from enterprises, otherwise it should be classified as Promotion
- If the subject or body contains verification code, secondary verification, login, security reminder, etc., prioritize Security
- Orders, payments, express, bills, etc. prioritize Transaction
- Advertisements, promotions, discounts, pushes prioritize Promotion
- If it is really impossible to determine, it defaults to LowPriority

-- Original Email Data --
From: {from_addr}
Subject: {subject}
Body:
{body}
`

// Builder renders the classification prompt for an email
type Builder struct {
	template      string
	maxBodyChars  int
	textProcessor *utils.TextProcessor
}

// NewBuilder creates a prompt builder. A non-positive maxBodyChars uses
// DefaultMaxBodyChars.
func NewBuilder(maxBodyChars int, textProcessor *utils.TextProcessor) *Builder {
	if maxBodyChars <= 0 {
		maxBodyChars = DefaultMaxBodyChars
	}
	return &Builder{
		template:      Template,
		maxBodyChars:  maxBodyChars,
		textProcessor: textProcessor,
	}
}

// Build substitutes the email into the template in a single literal pass,
// so placeholder text inside the email is left alone.
func (b *Builder) Build(email *core.Email) string {
	body := b.textProcessor.ProcessText(email.Body, b.maxBodyChars)

	r := strings.NewReplacer(
		PlaceholderFrom, email.From,
		PlaceholderSubject, email.Subject,
		PlaceholderBody, body,
	)
	return r.Replace(b.template)
}
