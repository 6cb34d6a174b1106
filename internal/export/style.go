package export

import (
	"fmt"
	"strings"

	"pagesmith/internal/models"
)

// stylesheet returns the inline CSS of an exported page. Brand colors and
// fonts become custom properties that the base rules refer to.
func stylesheet(b models.BrandSettings) string {
	var sb strings.Builder
	sb.WriteString(":root{")
	writeVar(&sb, "primary", b.PrimaryColor, "#2563eb")
	writeVar(&sb, "secondary", b.SecondaryColor, "#7c3aed")
	writeVar(&sb, "accent", b.AccentColor, "#f59e0b")
	writeVar(&sb, "text", b.TextColor, "#111827")
	writeVar(&sb, "background", b.BackgroundColor, "#ffffff")
	fmt.Fprintf(&sb, "--font-heading:%s,sans-serif;", fontFamily(b.HeadingFont))
	fmt.Fprintf(&sb, "--font-body:%s,sans-serif;", fontFamily(b.BodyFont))
	sb.WriteString("}")
	sb.WriteString(baseCSS)
	return sb.String()
}

func writeVar(sb *strings.Builder, name, value, def string) {
	if value = cssValue(value); value == "" {
		value = def
	}
	fmt.Fprintf(sb, "--%s:%s;", name, value)
}

func fontFamily(f string) string {
	f = strings.Map(func(r rune) rune {
		if r == '"' || r == '\'' || r == ';' || r == '{' || r == '}' || r == '<' || r == '>' {
			return -1
		}
		return r
	}, strings.TrimSpace(f))
	if f == "" {
		f = "Inter"
	}
	return `"` + f + `"`
}

// cssValue drops characters that could end a declaration or the <style>
// element.
func cssValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}

// sectionStyle renders a section's overrides as an inline style attribute.
func sectionStyle(s models.SectionStyle) string {
	var decls []string
	add := func(prop, v string) {
		if v = cssValue(v); v != "" {
			decls = append(decls, prop+":"+v)
		}
	}
	add("background-color", s.BackgroundColor)
	add("color", s.TextColor)
	add("--accent", s.AccentColor)
	add("padding-top", s.PaddingTop)
	add("padding-bottom", s.PaddingBottom)
	if img := cssValue(s.BackgroundImage); img != "" {
		decls = append(decls, "background-image:url('"+strings.ReplaceAll(img, "'", "%27")+"')", "background-size:cover")
	}
	return strings.Join(decls, ";")
}

const baseCSS = `*{box-sizing:border-box}
body{margin:0;font-family:var(--font-body);color:var(--text);background:var(--background);line-height:1.6}
h1,h2,h3{font-family:var(--font-heading);line-height:1.2;margin:0 0 .5em}
a{color:var(--primary)}
.container{max-width:1100px;margin:0 auto;padding:0 1.25rem}
.section{padding:4rem 0}
.section.full-width .container{max-width:none;padding:0}
.lead{font-size:1.25rem;opacity:.85}
.btn{display:inline-block;padding:.75rem 1.5rem;border-radius:.5rem;text-decoration:none;font-weight:600}
.btn-primary{background:var(--primary);color:#fff}
.btn-secondary{border:2px solid var(--primary);color:var(--primary)}
.actions{display:flex;gap:1rem;flex-wrap:wrap;margin-top:1.5rem}
.hero{display:grid;gap:2rem;align-items:center;grid-template-columns:repeat(auto-fit,minmax(280px,1fr))}
.hero h1{font-size:3rem}
.hero-image{width:100%;border-radius:1rem}
.grid{display:grid;gap:1.5rem;grid-template-columns:repeat(auto-fit,minmax(240px,1fr))}
.card{padding:1.5rem;border-radius:1rem;background:rgba(0,0,0,.03)}
.plan.highlighted{outline:3px solid var(--accent)}
.price{font-size:1.75rem;font-weight:700}
.rating{color:var(--accent)}
.avatar{width:40px;height:40px;border-radius:50%;vertical-align:middle;margin-right:.5rem}
.faq details{border-bottom:1px solid rgba(0,0,0,.1);padding:1rem 0}
.faq summary{cursor:pointer;font-weight:600}
.cta{text-align:center}
.site-header,.site-footer{display:flex;justify-content:space-between;align-items:center;gap:1rem;flex-wrap:wrap}
.site-header nav a,.site-footer nav a{margin:0 .75rem}
.logo img{max-height:40px}
.carousel{display:flex;gap:1rem;overflow-x:auto;scroll-snap-type:x mandatory}
.slide{flex:0 0 80%;scroll-snap-align:center;margin:0}
.slide img{width:100%;border-radius:1rem}
.field{display:flex;flex-direction:column;margin-bottom:1rem}
.field input,.field textarea{padding:.75rem;border:1px solid rgba(0,0,0,.2);border-radius:.5rem;font:inherit}
.quiz fieldset{border:0;margin:0 0 1.5rem;padding:0}
.quiz label{display:block}
.video-frame{position:relative;padding-top:56.25%}
.video-frame iframe,.video-frame video{position:absolute;inset:0;width:100%;height:100%;border:0}
.logos,.stats{display:flex;gap:2rem;justify-content:center;flex-wrap:wrap;align-items:center}
.logos img{max-height:48px}
.stat strong{display:block;font-size:2rem;color:var(--primary)}
.steps{counter-reset:step;list-style:none;padding:0;display:grid;gap:1.5rem}
.comparison{width:100%;border-collapse:collapse}
.comparison th,.comparison td{padding:.75rem;border-bottom:1px solid rgba(0,0,0,.1);text-align:left}
.placeholder{padding:2rem;border:2px dashed rgba(0,0,0,.25);border-radius:1rem;text-align:center;opacity:.7}
.sticky-cta{position:fixed;left:0;right:0;display:flex;justify-content:center;align-items:center;gap:1rem;padding:.75rem 1rem;background:var(--primary);color:#fff;z-index:50}
.sticky-top{top:0}
.sticky-bottom{bottom:0}
.sticky-cta .btn{background:#fff;color:var(--primary)}
.style-minimal .card{background:none;border:1px solid rgba(0,0,0,.1)}
.style-bold h1,.style-bold h2{text-transform:uppercase;letter-spacing:.02em}
.style-elegant h1,.style-elegant h2{font-weight:400}
.style-playful .btn,.style-playful .card{border-radius:2rem}
`
