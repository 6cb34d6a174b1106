package export

import (
	"encoding/json"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"pagesmith/internal/models"
)

// Markdown renders p to HTML and converts the result to Markdown. Scripts,
// styles and the document head are dropped by the converter.
func Markdown(p models.Page, opts ...Option) (string, error) {
	doc, err := HTML(p, opts...)
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(doc)
	if err != nil {
		return "", fmt.Errorf("convert page %s to markdown: %w", p.ID, err)
	}
	return md, nil
}

// JSON returns the indented JSON of p, the same shape the page is stored in.
func JSON(p models.Page) ([]byte, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode page %s: %w", p.ID, err)
	}
	return b, nil
}
