package mailing

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"

	"github.com/savora/recipedigest/internal/domain"
)

// digestHTMLTemplate is the Liquid source for the HTML digest part. The
// wording mirrors the plain-text body line for line.
const digestHTMLTemplate = `<html>
<body>
<p>Hi {{ username | default: "there" }},</p>
{% if recipes.size == 0 %}
<p>You have not posted any recipes yet.</p>
{% else %}
<ol>
{% for r in recipes %}
<li>Your <strong>{{ r.title | escape }}</strong> recipe got {{ r.like_count }} {% if r.like_count == 1 %}like{% else %}likes{% endif %}</li>
{% endfor %}
</ol>
{% endif %}
</body>
</html>
`

// TemplateRenderer renders the HTML digest part with a cached, parsed
// Liquid template. It implements digest.HTMLRenderer.
type TemplateRenderer struct {
	engine *liquid.Engine

	once sync.Once
	tpl  *liquid.Template
	err  error
}

// NewTemplateRenderer creates a renderer with the digest filters registered.
func NewTemplateRenderer() *TemplateRenderer {
	engine := liquid.NewEngine()

	// Default value filter: {{ username | default: "there" }}
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})

	return &TemplateRenderer{engine: engine}
}

// RenderDigestHTML renders the HTML part for one recipient.
func (t *TemplateRenderer) RenderDigestHTML(username string, summaries []domain.RecipeEngagement) (string, error) {
	t.once.Do(func() {
		t.tpl, t.err = t.engine.ParseString(digestHTMLTemplate)
	})
	if t.err != nil {
		return "", fmt.Errorf("parsing digest template: %w", t.err)
	}

	recipes := make([]map[string]interface{}, 0, len(summaries))
	for _, s := range summaries {
		recipes = append(recipes, map[string]interface{}{
			"title":      s.Title,
			"like_count": s.LikeCount,
		})
	}

	out, err := t.tpl.RenderString(map[string]interface{}{
		"username": username,
		"recipes":  recipes,
	})
	if err != nil {
		return "", fmt.Errorf("rendering digest template: %w", err)
	}
	return out, nil
}
