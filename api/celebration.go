package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cheersbot/celebrate"
	"cheersbot/resolver"
	"cheersbot/scheduler"
	"cheersbot/utils"
)

// handleCelebration serves both /birthday and /anniversary. The two
// commands are identical up to labels, so one handler takes the kind as
// a parameter and nothing is duplicated.
func (a *App) handleCelebration(ctx context.Context, kind celebrate.Kind, text string) slashResponse {
	parts := strings.Fields(text)
	sub := ""
	if len(parts) > 0 {
		sub = strings.ToLower(parts[0])
	}

	switch sub {
	case "add":
		if len(parts) < 3 {
			return ephemeral(fmt.Sprintf("❌ Usage: `%s add @user MM/DD/YYYY`", commandName(kind)))
		}
		userToken, dateInput := parts[1], parts[2]
		// Accept the arguments in either order.
		if utils.IsDateInput(userToken) && !utils.IsDateInput(dateInput) {
			userToken, dateInput = dateInput, userToken
		}
		return a.addCelebration(ctx, kind, userToken, dateInput)
	case "list":
		return a.listCelebrations(kind)
	case "delete":
		if len(parts) < 2 {
			return ephemeral(fmt.Sprintf("❌ Usage: `%s delete @user`", commandName(kind)))
		}
		return a.deleteCelebration(ctx, kind, parts[1])
	case "preview":
		if len(parts) < 2 {
			return ephemeral(fmt.Sprintf("❌ Usage: `%s preview @user [MM/DD/YYYY]`", commandName(kind)))
		}
		maybeDate := ""
		if len(parts) > 2 {
			maybeDate = parts[2]
		}
		return a.previewCelebration(ctx, kind, parts[1], maybeDate)
	case "run":
		return a.runCelebrations(ctx, kind)
	default:
		return ephemeral(helpText(kind))
	}
}

func (a *App) addCelebration(ctx context.Context, kind celebrate.Kind, userToken, dateInput string) slashResponse {
	date, err := utils.NormalizeDate(dateInput)
	if err != nil {
		return ephemeral(fmt.Sprintf("❌ Please use MM/DD/YYYY format for the %s date", kind))
	}

	res, err := a.resolver.Resolve(ctx, cleanToken(userToken))
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyToken) {
			return ephemeral(invalidUserMessage)
		}
		log.Printf("[ERROR] %s add: resolution failed: %v", commandName(kind), err)
		return ephemeral(somethingWentWrong)
	}

	switch res.Outcome {
	case resolver.Ambiguous:
		return ephemeral(disambiguationMessage(cleanToken(userToken), res))
	case resolver.Unlinked:
		return ephemeral(unlinkedMessage(res, kind, date))
	case resolver.NotFound:
		return ephemeral(invalidUserMessage)
	}

	email := ""
	name := ""
	if res.Member != nil {
		email = res.Member.Email
		name = res.Member.Name
	}

	if err := a.store.UpsertDate(res.UserID, email, kind, date); err != nil {
		log.Printf("[ERROR] %s add: failed to store date for %s: %v", commandName(kind), res.UserID, err)
		return ephemeral(somethingWentWrong)
	}

	if name == "" {
		if profile, err := a.store.GetByUserID(res.UserID); err == nil && profile != nil {
			name = profile.Name
		}
	}

	who := fmt.Sprintf("<@%s>", res.UserID)
	if name != "" {
		who = fmt.Sprintf("%s (<@%s>)", name, res.UserID)
	}
	return inChannel(fmt.Sprintf("%s %s added for %s on %s!", emoji(kind), addedLabel(kind), who, date), nil)
}

func (a *App) listCelebrations(kind celebrate.Kind) slashResponse {
	entries, err := a.store.ListCelebrations(kind)
	if err != nil {
		log.Printf("[ERROR] %s list failed: %v", commandName(kind), err)
		return ephemeral(somethingWentWrong)
	}

	var lines []string
	for _, e := range entries {
		if e.UserID == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s <@%s> - %s", emoji(kind), e.UserID, e.Date))
	}

	if len(lines) == 0 {
		return ephemeral(fmt.Sprintf("📅 No %s with linked Slack users yet. Add them with `%s add @user MM/DD/YYYY`.", plural(kind), commandName(kind)))
	}

	return ephemeral(listTitle(kind) + "\n" + strings.Join(lines, "\n"))
}

func (a *App) deleteCelebration(ctx context.Context, kind celebrate.Kind, userToken string) slashResponse {
	res, err := a.resolver.Resolve(ctx, cleanToken(userToken))
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyToken) {
			return ephemeral(fmt.Sprintf("❌ Usage: `%s delete @user`", commandName(kind)))
		}
		log.Printf("[ERROR] %s delete: resolution failed: %v", commandName(kind), err)
		return ephemeral(somethingWentWrong)
	}

	switch res.Outcome {
	case resolver.Ambiguous:
		return ephemeral(disambiguationMessage(cleanToken(userToken), res))
	case resolver.Unlinked, resolver.NotFound:
		return ephemeral(fmt.Sprintf("❌ Usage: `%s delete @user`", commandName(kind)))
	}

	removed, err := a.store.ClearDate(res.UserID, kind)
	if err != nil {
		log.Printf("[ERROR] %s delete failed for %s: %v", commandName(kind), res.UserID, err)
		return ephemeral(somethingWentWrong)
	}

	if removed {
		return ephemeral(fmt.Sprintf("🗑️ Deleted %s for <@%s>.", kind, res.UserID))
	}
	return ephemeral(fmt.Sprintf("ℹ️ No %s found for <@%s>.", kind, res.UserID))
}

func (a *App) previewCelebration(ctx context.Context, kind celebrate.Kind, userToken, maybeDate string) slashResponse {
	res, err := a.resolver.Resolve(ctx, cleanToken(userToken))
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyToken) {
			return ephemeral(invalidUserMessage)
		}
		log.Printf("[ERROR] %s preview: resolution failed: %v", commandName(kind), err)
		return ephemeral(somethingWentWrong)
	}

	switch res.Outcome {
	case resolver.Ambiguous:
		return ephemeral(disambiguationMessage(cleanToken(userToken), res))
	case resolver.Unlinked, resolver.NotFound:
		return ephemeral(invalidUserMessage)
	}

	displayDate, err := utils.NormalizeDate(maybeDate)
	if err != nil {
		displayDate = a.now().In(a.loc).Format("01/02/2006")
	}

	entry, err := a.store.CelebrationFor(res.UserID, kind)
	if err != nil {
		log.Printf("[ERROR] %s preview failed for %s: %v", commandName(kind), res.UserID, err)
		return ephemeral(somethingWentWrong)
	}
	if entry == nil {
		entry = &celebrate.Entry{UserID: res.UserID}
		if res.Member != nil {
			entry.Name = res.Member.Name
		}
	}

	text, blocks := celebrate.RenderBlocks(*entry, kind, displayDate, a.baseURL)
	return inChannel(text, blocks)
}

func (a *App) runCelebrations(ctx context.Context, kind celebrate.Kind) slashResponse {
	posted, err := a.poster.PostToday(ctx, kind)
	if errors.Is(err, scheduler.ErrNoChannel) {
		return ephemeral(fmt.Sprintf("⚠️ %s is not set. Cannot post to a channel.", channelEnvName(kind)))
	}
	if err != nil {
		log.Printf("[ERROR] %s run failed: %v", commandName(kind), err)
		return ephemeral("❌ Failed to post. Check server logs.")
	}

	if posted > 0 {
		return ephemeral(fmt.Sprintf("✅ Posted today's %s.", plural(kind)))
	}
	return ephemeral(fmt.Sprintf("ℹ️ No %s to post for today.", plural(kind)))
}

const (
	invalidUserMessage = "❌ Please mention a valid user (pick from autocomplete), provide a valid @username, or use a team member name/email."
	somethingWentWrong = "❌ Something went wrong. Please try again."
)

func disambiguationMessage(term string, res resolver.Resolution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❓ Multiple matches found for %q:\n\n", term)
	for i, c := range res.Candidates {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, c.Name, c.Email)
	}
	b.WriteString("\nPlease be more specific by using:\n• The full name\n• The email address\n• Or the Slack mention directly")
	return b.String()
}

func unlinkedMessage(res resolver.Resolution, kind celebrate.Kind, date string) string {
	m := res.Member
	return fmt.Sprintf("✅ Found team member: *%s* (%s)\n\n"+
		"❌ This profile doesn't have a linked Slack user yet.\n\n"+
		"*To add their %s, you need their Slack User ID:*\n"+
		"1. Right-click their name in Slack → \"Copy member ID\"\n"+
		"2. Then use: `%s add U[their-user-id] %s`\n\n"+
		"💡 Once linked, you can use their name in future commands.",
		m.Name, m.Email, kind, commandName(kind), date)
}

func commandName(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "/anniversary"
	}
	return "/birthday"
}

func emoji(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "🏆"
	}
	return "🎉"
}

func addedLabel(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "Work anniversary"
	}
	return "Birthday"
}

func listTitle(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "🎖️ *Team Work Anniversaries*"
	}
	return "🎉 *Team Birthdays*"
}

func plural(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "anniversaries"
	}
	return "birthdays"
}

func channelEnvName(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "ANNIVERSARY_CHANNEL_ID"
	}
	return "BIRTHDAY_CHANNEL_ID"
}

func helpText(kind celebrate.Kind) string {
	cmd := commandName(kind)
	label := strings.ToLower(addedLabel(kind))
	return fmt.Sprintf("ℹ️ *%s Commands:*\n"+
		"• `%s add @user MM/DD/YYYY` - Add a %s (auto-matches team members by name/email)\n"+
		"• `%s list` - View all %s\n"+
		"• `%s preview @user [MM/DD/YYYY]` - Preview the celebration message\n"+
		"• `%s delete @user` - Delete a %s\n"+
		"• `%s run` - Force-post today's %s",
		addedLabel(kind), cmd, label, cmd, plural(kind), cmd, cmd, label, cmd, plural(kind))
}
