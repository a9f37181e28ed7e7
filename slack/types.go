package slack

// Member is one entry from the workspace directory. It is never
// persisted; resolution consults it transiently.
type Member struct {
	ID          string
	Handle      string
	DisplayName string
	RealName    string
	Email       string
	IsBot       bool
	IsDeleted   bool
}

type memberProfile struct {
	DisplayName string `json:"display_name"`
	RealName    string `json:"real_name"`
	Email       string `json:"email"`
}

type apiMember struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Deleted bool          `json:"deleted"`
	IsBot   bool          `json:"is_bot"`
	Profile memberProfile `json:"profile"`
}

func (m apiMember) toMember() Member {
	return Member{
		ID:          m.ID,
		Handle:      m.Name,
		DisplayName: m.Profile.DisplayName,
		RealName:    m.Profile.RealName,
		Email:       m.Profile.Email,
		IsBot:       m.IsBot,
		IsDeleted:   m.Deleted,
	}
}

type usersListResponse struct {
	OK               bool        `json:"ok"`
	Error            string      `json:"error"`
	Members          []apiMember `json:"members"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type usersInfoResponse struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	User  apiMember `json:"user"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// TextObject is a Block Kit text element.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ContextElement is either a mrkdwn snippet or a small image inside a
// context block.
type ContextElement struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
}

// Block is the subset of Block Kit the bot renders.
type Block struct {
	Type     string           `json:"type"`
	Text     *TextObject      `json:"text,omitempty"`
	Fields   []TextObject     `json:"fields,omitempty"`
	Elements []ContextElement `json:"elements,omitempty"`
	ImageURL string           `json:"image_url,omitempty"`
	AltText  string           `json:"alt_text,omitempty"`
}

func SectionBlock(markdown string) Block {
	return Block{Type: "section", Text: &TextObject{Type: "mrkdwn", Text: markdown}}
}

func FieldsBlock(fields []TextObject) Block {
	return Block{Type: "section", Fields: fields}
}

func ContextBlock(elements ...ContextElement) Block {
	return Block{Type: "context", Elements: elements}
}

func MarkdownContext(text string) ContextElement {
	return ContextElement{Type: "mrkdwn", Text: text}
}

func ImageBlock(url, alt string) Block {
	return Block{Type: "image", ImageURL: url, AltText: alt}
}

func DividerBlock() Block {
	return Block{Type: "divider"}
}
