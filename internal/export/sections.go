// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"pagesmith/internal/models"
)

// section renders one section wrapped in its <section> element. Content
// that does not match the section's type renders as a placeholder.
func (r *renderer) section(s models.Section) g.Node {
	body := r.content(s)
	if body == nil {
		body = placeholder(s)
	}
	classes := "section section-" + string(s.Type)
	if s.Style.FullWidth {
		classes += " full-width"
	}
	return h.Section(
		h.ID("section-"+s.ID),
		h.Class(classes),
		g.If(!s.Style.IsZero(), g.Attr("style", sectionStyle(s.Style))),
		h.Div(h.Class("container"), body),
	)
}

func placeholder(s models.Section) g.Node {
	label := string(s.Type)
	if label == "" {
		label = "untyped"
	}
	return h.Div(
		h.Class("placeholder"),
		g.Attr("data-section-type", label),
		g.Textf("Unsupported content for section %q.", label),
	)
}

// content dispatches on the content record. It returns nil when the record
// is RawContent or belongs to a different type than the section.
func (r *renderer) content(s models.Section) g.Node {
	if s.Data == nil || s.Data.Kind() != s.Type {
		return nil
	}
	switch c := s.Data.(type) {
	case models.HeroContent:
		return r.hero(c)
	case models.FeaturesContent:
		return r.features(c)
	case models.TestimonialsContent:
		return r.testimonials(c)
	case models.FAQContent:
		return r.faq(c)
	case models.CTAContent:
		return r.cta(c)
	case models.HeaderContent:
		return r.header(c)
	case models.FooterContent:
		return r.footer(c)
	case models.CarouselContent:
		return r.carousel(c)
	case models.LeadFormContent:
		return r.leadForm(c)
	case models.QuizContent:
		return r.quiz(c)
	case models.VideoContent:
		return r.video(c)
	case models.CredibilityContent:
		return r.credibility(c)
	case models.HowItWorksContent:
		return r.howItWorks(c)
	case models.PricingContent:
		return r.pricing(c)
	case models.ComparisonContent:
		return r.comparison(c)
	}
	return nil
}

func heading(level int, text string) g.Node {
	if text == "" {
		return nil
	}
	switch level {
	case 1:
		return h.H1(g.Text(text))
	case 3:
		return h.H3(g.Text(text))
	}
	return h.H2(g.Text(text))
}

func button(class, text, href string) g.Node {
	if text == "" {
		return nil
	}
	return h.A(h.Class("btn "+class), h.Href(orHash(href)), g.Text(text))
}

func (r *renderer) hero(c models.HeroContent) g.Node {
	return h.Div(h.Class("hero"),
		h.Div(h.Class("hero-copy"),
			heading(1, c.Headline),
			g.If(c.Subheadline != "", h.P(h.Class("lead"), r.inline(c.Subheadline))),
			r.md("body", c.Body),
			h.Div(h.Class("actions"),
				button("btn-primary", c.CTAText, c.CTAURL),
				button("btn-secondary", c.SecondaryCTAText, c.SecondaryCTAURL),
			),
		),
		g.If(c.ImageURL != "", h.Img(h.Class("hero-image"), h.Src(c.ImageURL), h.Alt(c.Headline))),
	)
}

func (r *renderer) features(c models.FeaturesContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		g.If(c.Subtitle != "", h.P(h.Class("lead"), g.Text(c.Subtitle))),
		h.Div(h.Class("grid"), g.Map(c.Items, func(it models.FeatureItem) g.Node {
			return h.Div(h.Class("card"),
				g.If(it.Icon != "", h.Span(h.Class("icon"), g.Attr("data-icon", it.Icon))),
				heading(3, it.Title),
				r.md("text", it.Description),
			)
		})),
	})
}

func (r *renderer) testimonials(c models.TestimonialsContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		h.Div(h.Class("grid"), g.Map(c.Items, func(t models.Testimonial) g.Node {
			who := t.Author
			if t.Role != "" {
				who += ", " + t.Role
			}
			if t.Company != "" {
				who += " at " + t.Company
			}
			return g.El("figure", h.Class("card testimonial"),
				g.If(t.Rating > 0, h.Div(h.Class("rating"), g.Attr("aria-label", fmt.Sprintf("%d out of 5", t.Rating)), g.Text(strings.Repeat("★", min(t.Rating, 5))))),
				g.El("blockquote", g.Text(t.Quote)),
				g.El("figcaption",
					g.If(t.AvatarURL != "", h.Img(h.Class("avatar"), h.Src(t.AvatarURL), h.Alt(t.Author))),
					g.Text(who),
				),
			)
		})),
	})
}

func (r *renderer) faq(c models.FAQContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		h.Div(h.Class("faq"), g.Map(c.Items, func(it models.FAQItem) g.Node {
			return h.Details(
				h.Summary(g.Text(it.Question)),
				r.md("answer", it.Answer),
			)
		})),
	})
}

func (r *renderer) cta(c models.CTAContent) g.Node {
	return h.Div(h.Class("cta"),
		heading(2, c.Headline),
		r.md("body", c.Body),
		button("btn-primary", c.ButtonText, c.ButtonURL),
	)
}

func links(ls []models.Link) g.Node {
	return g.Map(ls, func(l models.Link) g.Node {
		return h.A(h.Href(orHash(l.URL)), g.Text(l.Label))
	})
}

func (r *renderer) header(c models.HeaderContent) g.Node {
	logo := g.Text(c.LogoText)
	if r.brand.LogoURL != "" {
		logo = h.Img(h.Src(r.brand.LogoURL), h.Alt(c.LogoText))
	}
	return h.Header(h.Class("site-header"),
		h.A(h.Class("logo"), h.Href("#"), logo),
		h.Nav(links(c.Links)),
		button("btn-primary", c.CTAText, c.CTAURL),
	)
}

func (r *renderer) footer(c models.FooterContent) g.Node {
	return h.Footer(h.Class("site-footer"),
		h.Div(
			h.Strong(g.Text(c.CompanyName)),
			g.If(c.Tagline != "", h.P(g.Text(c.Tagline))),
		),
		h.Nav(links(c.Links)),
		g.If(c.Copyright != "", h.Small(g.Text(c.Copyright))),
	)
}

func (r *renderer) carousel(c models.CarouselContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		h.Div(h.Class("carousel"), g.Map(c.Slides, func(s models.Slide) g.Node {
			return g.El("figure", h.Class("slide"),
				g.If(s.ImageURL != "", h.Img(h.Src(s.ImageURL), h.Alt(s.Caption))),
				g.If(s.Caption != "", g.El("figcaption", g.Text(s.Caption))),
			)
		})),
	})
}

func (r *renderer) leadForm(c models.LeadFormContent) g.Node {
	return h.Div(h.Class("lead-form"),
		heading(2, c.Headline),
		r.md("body", c.Body),
		g.El("form",
			h.Method("post"),
			g.Attr("data-success", c.SuccessMessage),
			g.Map(c.Fields, formField),
			h.Button(h.Type("submit"), h.Class("btn btn-primary"), g.Text(orDefault(c.SubmitText, "Send"))),
		),
	)
}

func formField(f models.FormField) g.Node {
	name := orDefault(f.Name, strings.ToLower(f.Label))
	attrs := []g.Node{h.Name(name), h.ID("field-" + name), g.If(f.Required, h.Required())}
	var input g.Node
	if f.Type == "textarea" {
		input = h.Textarea(attrs...)
	} else {
		input = h.Input(append(attrs, h.Type(orDefault(f.Type, "text")))...)
	}
	return h.Div(h.Class("field"),
		g.El("label", h.For("field-"+name), g.Text(f.Label)),
		input,
	)
}

func (r *renderer) quiz(c models.QuizContent) g.Node {
	return h.Div(h.Class("quiz"),
		heading(2, c.Title),
		g.Group(mapIndexed(c.Questions, func(i int, q models.QuizQuestion) g.Node {
			group := fmt.Sprintf("q%d", i)
			return g.El("fieldset",
				g.El("legend", g.Text(q.Question)),
				g.Map(q.Options, func(opt string) g.Node {
					return g.El("label", h.Input(h.Type("radio"), h.Name(group), h.Value(opt)), g.Text(" "+opt))
				}),
			)
		})),
		g.If(c.ResultText != "", h.P(h.Class("quiz-result"), g.Text(c.ResultText))),
	)
}

func (r *renderer) video(c models.VideoContent) g.Node {
	var player g.Node
	if embed := EmbedURL(c.VideoURL); embed != "" {
		player = g.El("iframe", h.Src(embed), g.Attr("allowfullscreen"), g.Attr("loading", "lazy"), g.Attr("title", c.Title))
	} else if c.VideoURL != "" {
		player = g.El("video", h.Src(c.VideoURL), h.Controls())
	}
	return h.Div(h.Class("video"),
		heading(2, c.Title),
		g.If(player != nil, h.Div(h.Class("video-frame"), player)),
		g.If(c.Caption != "", h.P(h.Class("caption"), g.Text(c.Caption))),
	)
}

// EmbedURL turns YouTube and Vimeo watch links into embeddable URLs.
// Other URLs return "".
func EmbedURL(u string) string {
	switch {
	case strings.Contains(u, "youtube.com/watch?v="):
		id := u[strings.Index(u, "v=")+2:]
		id, _, _ = strings.Cut(id, "&")
		return "https://www.youtube.com/embed/" + id
	case strings.Contains(u, "youtu.be/"):
		id := u[strings.Index(u, "youtu.be/")+len("youtu.be/"):]
		id, _, _ = strings.Cut(id, "?")
		return "https://www.youtube.com/embed/" + id
	case strings.Contains(u, "vimeo.com/") && !strings.Contains(u, "player.vimeo.com"):
		id := u[strings.LastIndex(u, "/")+1:]
		return "https://player.vimeo.com/video/" + id
	case strings.Contains(u, "youtube.com/embed/"), strings.Contains(u, "player.vimeo.com"):
		return u
	}
	return ""
}

func (r *renderer) credibility(c models.CredibilityContent) g.Node {
	return h.Div(h.Class("credibility"),
		heading(2, c.Title),
		g.If(len(c.Logos) > 0, h.Div(h.Class("logos"), g.Map(c.Logos, func(src string) g.Node {
			return h.Img(h.Src(src), h.Alt(""), g.Attr("loading", "lazy"))
		}))),
		g.If(len(c.Stats) > 0, h.Div(h.Class("stats"), g.Map(c.Stats, func(s models.Stat) g.Node {
			return h.Div(h.Class("stat"), h.Strong(g.Text(s.Value)), h.Span(g.Text(s.Label)))
		}))),
	)
}

func (r *renderer) howItWorks(c models.HowItWorksContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		h.Ol(h.Class("steps"), g.Map(c.Steps, func(s models.Step) g.Node {
			return h.Li(heading(3, s.Title), r.md("text", s.Description))
		})),
	})
}

func (r *renderer) pricing(c models.PricingContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		g.If(c.Subtitle != "", h.P(h.Class("lead"), g.Text(c.Subtitle))),
		h.Div(h.Class("grid pricing"), g.Map(c.Plans, func(p models.Plan) g.Node {
			class := "card plan"
			if p.Highlighted {
				class += " highlighted"
			}
			price := p.Price
			if p.Period != "" {
				price += " / " + p.Period
			}
			return h.Div(h.Class(class),
				heading(3, p.Name),
				h.P(h.Class("price"), g.Text(price)),
				h.Ul(g.Map(p.Features, func(f string) g.Node { return h.Li(g.Text(f)) })),
				button("btn-primary", p.CTAText, p.CTAURL),
			)
		})),
	})
}

func (r *renderer) comparison(c models.ComparisonContent) g.Node {
	return g.Group([]g.Node{
		heading(2, c.Title),
		h.Table(h.Class("comparison"),
			h.THead(h.Tr(
				h.Th(),
				g.Map(c.Columns, func(col string) g.Node { return h.Th(g.Text(col)) }),
			)),
			h.TBody(g.Map(c.Rows, func(row models.ComparisonRow) g.Node {
				return h.Tr(
					h.Th(g.Attr("scope", "row"), g.Text(row.Feature)),
					g.Map(row.Values, func(v string) g.Node { return h.Td(g.Text(v)) }),
				)
			})),
		),
	})
}

func mapIndexed[T any](ts []T, fn func(int, T) g.Node) []g.Node {
	out := make([]g.Node, len(ts))
	for i, t := range ts {
		out[i] = fn(i, t)
	}
	return out
}

func orHash(u string) string {
	if strings.TrimSpace(u) == "" {
		return "#"
	}
	return u
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
