// Package render рисует картинки, которые бот отправляет пользователю
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"unicode/utf8"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	cardWidth      = 900
	headerHeight   = 190
	rowHeight      = 74
	footerHeight   = 40
	paddingX       = 40
	barHeight      = 18.0
	barRadius      = 9.0
	cardRadius     = 18.0
	maxCourseRows  = 8
	maxCourseChars = 34
)

// Константы шрифтов
const (
	nameFontSize   = 38.0
	statsFontSize  = 22.0
	courseFontSize = 22.0
	smallFontSize  = 16.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	headerColor    = color.RGBA{52, 73, 94, 255}
	headerText     = color.RGBA{255, 255, 255, 255}
	headerSubText  = color.RGBA{210, 218, 226, 255}
	textColor      = color.RGBA{60, 64, 70, 255}
	mutedTextColor = color.RGBA{120, 125, 130, 255}
	barBgColor     = color.RGBA{220, 223, 228, 255}
	barColor       = color.RGBA{74, 144, 226, 255}
	barDoneColor   = color.RGBA{133, 193, 85, 255}
	xpBarColor     = color.RGBA{241, 196, 15, 255}
)

// CourseRow строка курса на карточке
type CourseRow struct {
	Name      string
	Completed int
	Total     int
	Percent   float64
	Finished  bool
}

// Card данные карточки прогресса
type Card struct {
	Name    string
	Level   int
	XP      int
	Streak  int
	Courses []CourseRow
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	parsed, ok := cachedFonts[style]
	if !ok {
		data := goregular.TTF
		if style == FontStyleBold {
			data = gobold.TTF
		}

		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFonts[style] = parsed
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// ProgressCard рисует карточку прогресса пользователя в PNG
func ProgressCard(card Card) ([]byte, error) {
	rows := card.Courses
	hidden := 0
	if len(rows) > maxCourseRows {
		hidden = len(rows) - maxCourseRows
		rows = rows[:maxCourseRows]
	}

	height := headerHeight + footerHeight + rowHeight*len(rows)
	if len(rows) == 0 || hidden > 0 {
		height += rowHeight / 2
	}

	dc := gg.NewContext(cardWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()

	drawHeader(dc, card)

	y := float64(headerHeight) + 20
	for _, row := range rows {
		drawCourseRow(dc, row, y)
		y += rowHeight
	}

	switch {
	case len(rows) == 0:
		loadFont(dc, courseFontSize, FontStyleDefault)
		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored("Курсы ещё не начаты", cardWidth/2, y+10, 0.5, 0.5)
	case hidden > 0:
		loadFont(dc, smallFontSize, FontStyleDefault)
		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored(fmt.Sprintf("и ещё курсов: %d", hidden), paddingX, y+10, 0, 0.5)
	}

	return encodeImage(dc)
}

// drawHeader рисует плашку с именем, уровнем и опытом
func drawHeader(dc *gg.Context, card Card) {
	dc.SetColor(headerColor)
	dc.DrawRoundedRectangle(10, 10, cardWidth-20, headerHeight-20, cardRadius)
	dc.Fill()

	loadFont(dc, nameFontSize, FontStyleBold)
	dc.SetColor(headerText)
	dc.DrawStringAnchored(truncate(card.Name, maxCourseChars), paddingX, 60, 0, 0.5)

	loadFont(dc, statsFontSize, FontStyleDefault)
	dc.SetColor(headerSubText)
	stats := fmt.Sprintf("Уровень %d   •   %d XP   •   Серия: %d дн.", card.Level, card.XP, card.Streak)
	dc.DrawStringAnchored(stats, paddingX, 105, 0, 0.5)

	// Полоса до следующего уровня
	inLevel := card.XP % model.XPPerLevel
	barWidth := float64(cardWidth - paddingX*2)
	drawBar(dc, paddingX, 135, barWidth, float64(inLevel)/float64(model.XPPerLevel), xpBarColor)

	loadFont(dc, smallFontSize, FontStyleDefault)
	dc.SetColor(headerSubText)
	next := fmt.Sprintf("%d / %d XP до уровня %d", inLevel, model.XPPerLevel, card.Level+1)
	dc.DrawStringAnchored(next, cardWidth-paddingX, 166, 1, 0.5)
}

// drawCourseRow рисует название курса и полосу прогресса
func drawCourseRow(dc *gg.Context, row CourseRow, y float64) {
	loadFont(dc, courseFontSize, FontStyleBold)
	dc.SetColor(textColor)
	icon := "• "
	if row.Finished {
		icon = "√ "
	}
	dc.DrawStringAnchored(icon+truncate(row.Name, maxCourseChars), paddingX, y+8, 0, 0.5)

	loadFont(dc, smallFontSize, FontStyleDefault)
	dc.SetColor(mutedTextColor)
	counter := fmt.Sprintf("%d/%d (%.0f%%)", row.Completed, row.Total, row.Percent)
	dc.DrawStringAnchored(counter, cardWidth-paddingX, y+8, 1, 0.5)

	fill := barColor
	if row.Finished {
		fill = barDoneColor
	}
	drawBar(dc, paddingX, y+26, float64(cardWidth-paddingX*2), row.Percent/100, fill)
}

// drawBar рисует полосу прогресса; fraction обрезается до [0, 1]
func drawBar(dc *gg.Context, x, y, width, fraction float64, fill color.Color) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	dc.SetColor(barBgColor)
	dc.DrawRoundedRectangle(x, y, width, barHeight, barRadius)
	dc.Fill()

	if filled := width * fraction; filled > 0 {
		if filled < barHeight {
			filled = barHeight
		}
		dc.SetColor(fill)
		dc.DrawRoundedRectangle(x, y, filled, barHeight, barRadius)
		dc.Fill()
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
