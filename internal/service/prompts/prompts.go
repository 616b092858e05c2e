// Package prompts renders the system and user prompts of the AI content flows.
package prompts

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/basetishop/shop_api/pkg/llm"
)

//go:embed template/*.txt
var templates embed.FS

// Prompt names. Each has a <name>_system.txt and <name>_user.txt template.
const (
	Ideas              = "ideas"
	Trends             = "trends"
	ProductDescription = "product_description"
	SocialCaptions     = "social_captions"
	CompetitorAnalysis = "competitor_analysis"
)

// Render formats the named prompt pair with vars through eino's prompt component.
func Render(ctx context.Context, name string, vars map[string]any) (llm.Request, error) {
	system, err := templates.ReadFile("template/" + name + "_system.txt")
	if err != nil {
		return llm.Request{}, fmt.Errorf("unknown prompt %q: %w", name, err)
	}
	user, err := templates.ReadFile("template/" + name + "_user.txt")
	if err != nil {
		return llm.Request{}, fmt.Errorf("unknown prompt %q: %w", name, err)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(string(system)),
		schema.UserMessage(string(user)),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return llm.Request{}, fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return llm.Request{}, fmt.Errorf("%s prompt render: unexpected result", name)
	}
	return llm.Request{
		System: strings.TrimSpace(msgs[0].Content),
		User:   strings.TrimSpace(msgs[1].Content),
	}, nil
}
