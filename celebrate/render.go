package celebrate

import (
	"fmt"
	"strings"

	"cheersbot/slack"
)

// ImageURL resolves a stored image filename to a public asset URL.
// Empty when no image is stored or no base URL is configured.
func ImageURL(filename, baseURL string) string {
	if filename == "" || baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/assets/" + filename
}

// RenderBlocks builds the celebration message for one entry: an
// optional name line, an optional image, the message itself and the
// stored date. Shared by the scheduler and the preview subcommand.
func RenderBlocks(e Entry, kind Kind, displayDate, imageBase string) (string, []slack.Block) {
	message := e.Message
	if message == "" {
		message = DefaultMessage(kind, e.UserID)
	}

	var blocks []slack.Block
	if e.Name != "" {
		blocks = append(blocks, slack.ContextBlock(slack.MarkdownContext(fmt.Sprintf("Name: *%s*", e.Name))))
	}
	if url := ImageURL(e.Image, imageBase); url != "" {
		blocks = append(blocks, slack.ImageBlock(url, fmt.Sprintf("%s image for %s", kind, e.UserID)))
	}
	blocks = append(blocks,
		slack.SectionBlock(message),
		slack.ContextBlock(slack.MarkdownContext("Date: "+displayDate)),
		slack.DividerBlock(),
	)

	return Headline(kind, e.UserID), blocks
}
