package notify

import (
	"fmt"

	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/internal/domain/types"
)

// Block is one Slack Block Kit block. Only the fields used by the block's
// type are populated.
type Block struct {
	Type      string    `json:"type"`
	Text      *Text     `json:"text,omitempty"`
	Elements  []Element `json:"elements,omitempty"`
	Accessory *Button   `json:"accessory,omitempty"`
}

// Text is a plain_text or mrkdwn text object.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Element is a context-block element, either an image or a text run.
type Element struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
}

// Button is a section accessory linking out of the message.
type Button struct {
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Message is a webhook payload or digest response body.
type Message struct {
	Blocks []Block `json:"blocks"`
}

var milestoneHeadlines = map[milestone.Kind]string{
	milestone.KindPersonalBest:  ":stopwatch: Personal best!",
	milestone.KindOverallRecord: ":checkered_flag: New overall record!",
	milestone.KindFirstTime:     ":wave: First time on the board!",
}

// playerLine renders one player as a context block: image, bold name,
// spacer runs, bold lap time. The image element is omitted when the
// roster has no picture, since the chat API rejects empty image URLs.
func playerLine(name, imageURL, formattedTime string) Block {
	elements := make([]Element, 0, 6)
	if imageURL != "" {
		elements = append(elements, Element{Type: "image", ImageURL: imageURL, AltText: name})
	}
	elements = append(elements,
		Element{Type: "mrkdwn", Text: fmt.Sprintf("*%s*", name)},
		Element{Type: "mrkdwn", Text: " "},
		Element{Type: "mrkdwn", Text: " "},
		Element{Type: "mrkdwn", Text: " "},
		Element{Type: "mrkdwn", Text: fmt.Sprintf("*%s*", formattedTime)},
	)
	return Block{Type: "context", Elements: elements}
}

// BuildMilestoneMessage renders a milestone as a headline plus the
// player's line.
func BuildMilestoneMessage(m milestone.Milestone) Message {
	headline, ok := milestoneHeadlines[m.Kind]
	if !ok {
		headline = ":racing_car: Lap time registered"
	}

	return Message{Blocks: []Block{
		{
			Type: "section",
			Text: &Text{Type: "mrkdwn", Text: headline},
		},
		playerLine(m.PlayerName, m.ImageURL, m.FormattedTime()),
	}}
}

// BuildLeaderboardMessage renders the full board as a chat digest:
// a header, one context line per ranked player and a link back to the
// live overview.
func BuildLeaderboardMessage(board types.Board, siteURL string) Message {
	blocks := make([]Block, 0, len(board.Rows)+3)
	blocks = append(blocks, Block{
		Type: "header",
		Text: &Text{Type: "plain_text", Text: "Leaderboard"},
	})

	for _, row := range board.Rows {
		blocks = append(blocks, playerLine(row.PlayerName, row.ImageURL, row.Time))
	}

	blocks = append(blocks,
		Block{Type: "divider"},
		Block{
			Type: "section",
			Text: &Text{Type: "mrkdwn", Text: "Se live oversikt her:"},
			Accessory: &Button{
				Type: "button",
				Text: &Text{Type: "plain_text", Text: "Gå til link", Emoji: true},
				URL:  siteURL,
			},
		},
	)

	return Message{Blocks: blocks}
}
