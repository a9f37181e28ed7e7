package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cheersbot/celebrate"
	"cheersbot/db"
	"cheersbot/resolver"
	"cheersbot/slack"
)

// handleProfile renders a team member's profile card. With no argument
// (or "me") it shows the caller's own profile.
func (a *App) handleProfile(ctx context.Context, text, caller string) slashResponse {
	token := strings.TrimSpace(text)
	if token == "" || strings.EqualFold(token, "me") {
		profile, err := a.store.GetByUserID(caller)
		if err != nil {
			log.Printf("[ERROR] /profile lookup failed for %s: %v", caller, err)
			return ephemeral(somethingWentWrong)
		}
		if profile == nil {
			return ephemeral("ℹ️ You don't have a profile yet. Ask an admin to add one.")
		}
		return a.profileCard(profile)
	}

	res, err := a.resolver.Resolve(ctx, cleanToken(token))
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyToken) {
			return ephemeral(invalidUserMessage)
		}
		log.Printf("[ERROR] /profile: resolution failed: %v", err)
		return ephemeral(somethingWentWrong)
	}

	switch res.Outcome {
	case resolver.Ambiguous:
		return ephemeral(disambiguationMessage(cleanToken(token), res))
	case resolver.Unlinked:
		return a.profileCard(res.Member)
	case resolver.NotFound:
		return ephemeral(invalidUserMessage)
	}

	if res.Member != nil {
		return a.profileCard(res.Member)
	}
	profile, err := a.store.GetByUserID(res.UserID)
	if err != nil {
		log.Printf("[ERROR] /profile lookup failed for %s: %v", res.UserID, err)
		return ephemeral(somethingWentWrong)
	}
	if profile == nil {
		return a.directoryCard(ctx, res.UserID)
	}
	return a.profileCard(profile)
}

// directoryCard renders a minimal card from the workspace directory
// when the member has no stored profile.
func (a *App) directoryCard(ctx context.Context, userID string) slashResponse {
	if a.dir != nil {
		member, err := a.dir.GetMemberByID(ctx, userID)
		if err != nil {
			log.Printf("[WARN] /profile: directory lookup failed for %s: %v", userID, err)
		} else if member != nil {
			name := member.RealName
			if name == "" {
				name = member.Handle
			}
			return a.profileCard(&db.Profile{
				UserID: userID,
				Name:   name,
				Email:  member.Email,
			})
		}
	}
	return ephemeral(fmt.Sprintf("ℹ️ <@%s> doesn't have a profile yet.", userID))
}

func (a *App) profileCard(p *db.Profile) slashResponse {
	name := p.Name
	if name == "" {
		name = p.Email
	}

	blocks := []slack.Block{
		slack.SectionBlock(fmt.Sprintf("*%s*", name)),
	}
	if p.Image != "" {
		blocks = append(blocks, slack.ImageBlock(celebrate.ImageURL(p.Image, a.baseURL), name))
	}

	fields := profileFields(p)
	if len(fields) > 0 {
		blocks = append(blocks, slack.FieldsBlock(fields))
	}

	footer := fmt.Sprintf("Email: %s", p.Email)
	if p.UserID != "" {
		footer = fmt.Sprintf("Slack: <@%s>", p.UserID)
	}
	blocks = append(blocks, slack.ContextBlock(slack.MarkdownContext(footer)))

	return slashResponse{
		ResponseType: "ephemeral",
		Text:         fmt.Sprintf("Profile: %s", name),
		Blocks:       blocks,
	}
}

func profileFields(p *db.Profile) []slack.TextObject {
	pairs := []struct{ label, value string }{
		{"Position", p.Position},
		{"Designation", p.Designation},
		{"Join Date", p.JoinDate},
		{"Email", p.Email},
		{"Mobile", p.Mobile},
		{"Secondary", p.SecondaryContact},
		{"Address", p.Address},
		{"Blood Group", p.BloodGroup},
		{"Birthday", p.DOB},
	}
	var fields []slack.TextObject
	for _, pair := range pairs {
		if pair.value == "" {
			continue
		}
		fields = append(fields, slack.TextObject{
			Type: "mrkdwn",
			Text: fmt.Sprintf("*%s:*\n%s", pair.label, pair.value),
		})
	}
	return fields
}
