package cmd

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/arcanaland/dailywisdom/internal/config"
)

const (
	artWidth  = 36
	artHeight = 24
)

// loadCardArt returns the ANSI rendering of an image, converting and caching
// it under the cache dir on first use. The cache key covers the file's path,
// size and modification time so regenerated images are picked up.
func loadCardArt(imagePath string) (string, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %w", err)
	}

	key := fmt.Sprintf("%s|%d|%d|%dx%d", imagePath, info.Size(), info.ModTime().UnixNano(), artWidth, artHeight)
	cachePath := filepath.Join(cacheDir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(key))))

	if data, err := os.ReadFile(cachePath); err == nil {
		return string(data), nil
	}

	art, err := renderImageFile(imagePath, artWidth, artHeight)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cachePath, []byte(art), 0644); err != nil {
		return "", fmt.Errorf("failed to write ANSI art to cache: %w", err)
	}
	return art, nil
}

func renderImageFile(imagePath string, width, height int) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return imageToAnsi(img, width, height), nil
}

// imageToAnsi draws img as width x height cells of upper half blocks: the
// foreground is the top pixel pair, the background the bottom pair.
func imageToAnsi(img image.Image, width, height int) string {
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var sb strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			top := averageColor(pixel(resized, x, y), pixel(resized, x+1, y))
			bottom := averageColor(pixel(resized, x, y+1), pixel(resized, x+1, y+1))
			sb.WriteString(halfBlock(top, bottom))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// pixel returns the color at x, y as a colorful.Color; out of bounds is black
func pixel(img image.Image, x, y int) colorful.Color {
	var c color.Color = color.Black
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		c = img.At(x, y)
	}
	col, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent
		return colorful.Color{}
	}
	return col
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}

func halfBlock(fg, bg colorful.Color) string {
	r1, g1, b1 := fg.Clamped().RGB255()
	r2, g2, b2 := bg.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀\x1b[0m", r1, g1, b1, r2, g2, b2)
}

// wrapText wraps text on word boundaries to at most width runes per line.
// Paragraph breaks are kept as empty lines.
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var lines []string
	for i, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			if i > 0 {
				lines = append(lines, "")
			}
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if runeLen(line)+1+runeLen(word) <= width {
				line += " " + word
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// visibleWidth is the number of runes in s once ANSI escapes are removed
func visibleWidth(s string) int {
	return runeLen(stripAnsi(s))
}

func runeLen(s string) int {
	return len([]rune(s))
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
