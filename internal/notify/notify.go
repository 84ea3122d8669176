// Package notify delivers user-facing notifications.
//
// The only transport wired today writes structured log lines in the shape a
// mail delivery would take, which keeps every call site and template honest
// until an SMTP or push provider is attached. Delivery is fire and forget:
// a notification failure never fails the operation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	identitymodels "vouch/internal/identity/models"
	"vouch/internal/platform/config"
	id "vouch/pkg/domain"
)

// UserLookup resolves a recipient's address and display name.
type UserLookup interface {
	GetByID(ctx context.Context, userID id.UserID) (*identitymodels.User, error)
}

// LogNotifier renders notifications into the process log.
type LogNotifier struct {
	users  UserLookup
	sender string
	logger *slog.Logger
}

func NewLogNotifier(users UserLookup, cfg config.NotifyConfig, logger *slog.Logger) *LogNotifier {
	return &LogNotifier{users: users, sender: cfg.Sender, logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, recipient id.UserID, subject, body string) {
	u, err := n.users.GetByID(ctx, recipient)
	if err != nil {
		n.logger.WarnContext(ctx, "notification recipient lookup failed",
			"recipient_id", recipient, "subject", subject, "error", err)
		return
	}
	name := u.FullName
	if name == "" {
		name = DeriveNameFromEmail(u.Email)
	}
	n.logger.InfoContext(ctx, "notification sent",
		"from", n.sender,
		"to", u.Email,
		"recipient_name", name,
		"subject", subject,
		"body", body)
}

// DeriveNameFromEmail turns the local part of an address into a display
// name: dots and underscores become spaces, words are capitalized.
func DeriveNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
