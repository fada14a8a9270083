package highlight

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ThemeName is the name of the embedded color theme.
const ThemeName = "catppuccin-macchiato"

//go:embed themes/catppuccin-macchiato.xml
var embeddedTheme []byte

// LoadTheme parses the embedded theme. A broken theme is logged and the
// chroma fallback style is returned instead; it never fails.
func LoadTheme(logger *slog.Logger) *chroma.Style {
	return loadTheme(embeddedTheme, logger)
}

func loadTheme(data []byte, logger *slog.Logger) *chroma.Style {
	style, err := ParseTheme(bytes.NewReader(data))
	if err != nil {
		logger.Error("failed to load embedded theme",
			slog.String("theme", ThemeName),
			slog.String("fallback", styles.Fallback.Name),
			slog.String("error", err.Error()))
		return styles.Fallback
	}
	return style
}

// ParseTheme reads a chroma XML style definition.
func ParseTheme(r io.Reader) (*chroma.Style, error) {
	style, err := chroma.NewXMLStyle(r)
	if err != nil {
		return nil, fmt.Errorf("highlight: parse theme: %w", err)
	}
	return style, nil
}
